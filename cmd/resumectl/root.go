package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resume-editor/internal/resumeclient"
)

type globalFlags struct {
	server  string
	token   string
	guestID string
	timeout time.Duration
	verbose bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "resumectl",
		Short:         "Render and edit resumes",
		Long:          "resumectl projects resume documents through the built-in templates and applies edits to resumes stored on a resume server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.server, "server", envOr("RESUME_SERVER", "http://localhost:8080"), "Resume server base URL")
	root.PersistentFlags().StringVar(&g.token, "token", os.Getenv("RESUME_TOKEN"), "Bearer token")
	root.PersistentFlags().StringVar(&g.guestID, "guest", os.Getenv("RESUME_GUEST_ID"), "Guest id sent as X-Guest-Id when no token is set")
	root.PersistentFlags().DurationVar(&g.timeout, "timeout", 30*time.Second, "Request timeout")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log autosave activity to stderr")

	root.AddCommand(
		newTemplatesCmd(),
		newRenderCmd(g),
		newFetchCmd(g),
		newListCmd(g),
		newRenameCmd(g),
		newDeleteCmd(g),
		newMoveSectionCmd(g),
		newToggleCmd(g),
	)
	return root
}

func (g *globalFlags) client() (*resumeclient.Client, error) {
	if g.token == "" && g.guestID == "" {
		return nil, fmt.Errorf("either --token or --guest is required")
	}
	return resumeclient.New(g.server,
		resumeclient.WithToken(g.token),
		resumeclient.WithGuestID(g.guestID),
	)
}

func (g *globalFlags) logger() *zap.Logger {
	if !g.verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
