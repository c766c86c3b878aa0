package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"resume-editor/resume/model"
	"resume-editor/resume/render"
)

func newTemplatesCmd() *cobra.Command {
	var catalog string
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := render.LoadRegistry(catalog)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range reg.Templates() {
				if t.Description != "" {
					fmt.Fprintf(out, "%-10s %s - %s\n", t.ID, t.Name, t.Description)
					continue
				}
				fmt.Fprintf(out, "%-10s %s\n", t.ID, t.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&catalog, "catalog", "", "Path to a template catalog YAML file")
	return cmd
}

func newRenderCmd(g *globalFlags) *cobra.Command {
	var (
		file     string
		format   string
		catalog  string
		template string
	)
	cmd := &cobra.Command{
		Use:   "render [resume-id]",
		Short: "Project a resume through a template",
		Long:  "Renders a local document JSON file (--file) or a resume stored on the server (by id).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if file != "" {
				if len(args) > 0 {
					return fmt.Errorf("pass either --file or a resume id, not both")
				}
				return renderLocal(out, file, catalog, template, format)
			}
			if len(args) == 0 {
				return fmt.Errorf("a resume id or --file is required")
			}

			client, err := g.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
			defer cancel()
			body, err := client.Render(ctx, args[0], template, format)
			if err != nil {
				return err
			}
			_, err = out.Write(body)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to a document JSON file")
	cmd.Flags().StringVarP(&template, "template", "t", "classic", "Template id")
	cmd.Flags().StringVar(&format, "format", render.FormatText, "Output format: json, html or text")
	cmd.Flags().StringVar(&catalog, "catalog", "", "Path to a template catalog YAML file (local rendering only)")
	return cmd
}

func renderLocal(w io.Writer, path, catalog, templateID, format string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	doc.Normalize()
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}

	reg, err := render.LoadRegistry(catalog)
	if err != nil {
		return err
	}
	projected, err := reg.Project(&doc, templateID)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch format {
	case render.FormatJSON:
		err = writeJSON(&buf, projected)
	case render.FormatHTML:
		err = render.WriteHTML(&buf, projected)
	case render.FormatText:
		err = render.WriteText(&buf, projected)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}
