package sequencer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bouncyquencer/ball"
)

// StateExt is the file extension of saved project state
const StateExt = ".state"

var ErrNoProjectName = errors.New("project name is empty")

// SaveState is what gets written to disk: ball position and velocity only.
// Radius, color and edge config are not part of a save.
type SaveState struct {
	BallPositionX float64 `json:"ball_position_x"`
	BallPositionY float64 `json:"ball_position_y"`
	BallVelocityX float64 `json:"ball_velocity_x"`
	BallVelocityY float64 `json:"ball_velocity_y"`
	ProjectName   string  `json:"project_name"`
}

// Freeze captures the current state for saving
func (s *Simulation) Freeze() SaveState {
	pos, vel := s.ball.Position(), s.ball.Velocity()
	return SaveState{
		BallPositionX: pos.X,
		BallPositionY: pos.Y,
		BallVelocityX: vel.X,
		BallVelocityY: vel.Y,
		ProjectName:   s.projectName,
	}
}

// Restore overwrites ball position and velocity through the plain setters
func (s *Simulation) Restore(st SaveState) {
	s.ball.SetPosition(ball.Vec2{X: st.BallPositionX, Y: st.BallPositionY})
	s.ball.SetVelocity(ball.Vec2{X: st.BallVelocityX, Y: st.BallVelocityY})
	if st.ProjectName != "" {
		s.projectName = st.ProjectName
	}
}

// StatePath returns dir/<sanitized name>.state
func StatePath(dir, projectName string) (string, error) {
	name := sanitizeFilename(strings.TrimSpace(projectName))
	if name == "" {
		return "", ErrNoProjectName
	}
	return filepath.Join(dir, name+StateExt), nil
}

// SaveProject writes the state to dir, named after its project
func SaveProject(dir string, st SaveState) (string, error) {
	path, err := StatePath(dir, st.ProjectName)
	if err != nil {
		return "", err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	data, err := json.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("serialize state: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("save state: %w", err)
	}
	return path, nil
}

// LoadProject reads the named project's state from dir
func LoadProject(dir, projectName string) (SaveState, error) {
	path, err := StatePath(dir, projectName)
	if err != nil {
		return SaveState{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return SaveState{}, fmt.Errorf("read state: %w", err)
	}

	var st SaveState
	if err := json.Unmarshal(data, &st); err != nil {
		return SaveState{}, fmt.Errorf("deserialize state %s: %w", path, err)
	}
	return st, nil
}

// ListProjects returns the names of saved projects in dir, sorted
func ListProjects(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var projects []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), StateExt) {
			continue
		}
		projects = append(projects, strings.TrimSuffix(entry.Name(), StateExt))
	}

	sort.Strings(projects)
	return projects, nil
}

// sanitizeFilename removes/replaces characters that are problematic in filenames
func sanitizeFilename(name string) string {
	r := strings.NewReplacer(
		" ", "-", "/", "-", "\\", "-", ":", "-",
		"*", "", "?", "", "\"", "", "<", "", ">", "", "|", "",
	)
	return r.Replace(name)
}
