package editor

import (
	"strings"

	"resume-editor/resume/model"
)

// AddProjectSkill appends a skill tag to a project and returns the new tag id.
// It returns 0 when the project does not exist.
func AddProjectSkill(s *model.Section[model.ProjectItem], projectID int, skill string) (int, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return 0, &model.ValidationError{Field: "skill", Message: "is required"}
	}
	idx := indexOf[model.ProjectItem](s.Items, projectID)
	if idx < 0 {
		return 0, nil
	}
	project := &s.Items[idx]
	id := lastSkillID(project) + 1
	skills := make([]model.ProjectSkill, 0, len(project.Skills)+1)
	skills = append(skills, project.Skills...)
	project.Skills = append(skills, model.ProjectSkill{ID: id, Skill: skill})
	project.LastSkillID = id
	return id, nil
}

// RemoveProjectSkill drops one tag from a project, keeping the others in order.
// It reports whether a tag was removed.
func RemoveProjectSkill(s *model.Section[model.ProjectItem], projectID, skillID int) bool {
	idx := indexOf[model.ProjectItem](s.Items, projectID)
	if idx < 0 {
		return false
	}
	project := &s.Items[idx]
	for i, tag := range project.Skills {
		if tag.ID != skillID {
			continue
		}
		project.LastSkillID = lastSkillID(project)
		skills := make([]model.ProjectSkill, 0, len(project.Skills)-1)
		skills = append(skills, project.Skills[:i]...)
		project.Skills = append(skills, project.Skills[i+1:]...)
		return true
	}
	return false
}

func lastSkillID(p *model.ProjectItem) int {
	highest := p.LastSkillID
	for _, tag := range p.Skills {
		if tag.ID > highest {
			highest = tag.ID
		}
	}
	return highest
}

func issueSkillIDs(p *model.ProjectItem) {
	p.LastSkillID = len(p.Skills)
	if p.Skills == nil {
		return
	}
	skills := make([]model.ProjectSkill, len(p.Skills))
	for i, tag := range p.Skills {
		skills[i] = model.ProjectSkill{ID: i + 1, Skill: strings.TrimSpace(tag.Skill)}
	}
	p.Skills = skills
}
