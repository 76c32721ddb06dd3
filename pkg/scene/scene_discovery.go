package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultGroup holds scenes that do not name a group
const DefaultGroup = "Rooms"

// SceneInfo represents a discovered scene file with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // File name without extension
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	FilePath    string `json:"filePath"`    // Path to the YAML file
	Variant     string `json:"variant"`     // Variant name (optional)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// sceneHeader is the metadata part of a scene file
type sceneHeader struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Group       string `yaml:"group"`
	Variant     string `yaml:"variant"`
}

// ListScenes scans dir for .yaml and .yml scene files, sorted by display name.
// A missing directory yields an empty list.
func ListScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Broken files are skipped; loading them reports the details
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// FindScene returns the scene in dir whose ID is id
func FindScene(dir, id string) (SceneInfo, error) {
	scenes, err := ListScenes(dir)
	if err != nil {
		return SceneInfo{}, err
	}
	for _, s := range scenes {
		if s.ID == id {
			return s, nil
		}
	}
	return SceneInfo{}, fmt.Errorf("scene %q not found in %s", id, dir)
}

// ParseSceneMetadata reads the name, description, group and variant keys of a
// scene file. Missing values fall back to the file name and DefaultGroup.
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       DefaultGroup,
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return sceneInfo, fmt.Errorf("failed to read scene file: %w", err)
	}

	var header sceneHeader
	if err := yaml.Unmarshal(data, &header); err != nil {
		return sceneInfo, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	if name := strings.TrimSpace(header.Name); name != "" {
		sceneInfo.Name = name
	}
	if group := strings.TrimSpace(header.Group); group != "" {
		sceneInfo.Group = group
	}
	sceneInfo.Description = strings.TrimSpace(header.Description)
	sceneInfo.Variant = strings.TrimSpace(header.Variant)

	if sceneInfo.Variant != "" {
		sceneInfo.DisplayName = fmt.Sprintf("%s - %s", sceneInfo.Name, sceneInfo.Variant)
	} else {
		sceneInfo.DisplayName = sceneInfo.Name
	}

	return sceneInfo, nil
}

// ListAllScenes returns the scenes of dir grouped by category, DefaultGroup
// first and the rest alphabetically
func ListAllScenes(dir string) (ScenesResponse, error) {
	response := ScenesResponse{Groups: []SceneGroup{}}

	scenes, err := ListScenes(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list scenes: %w", err)
	}

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range scenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != DefaultGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if defaultGroup, exists := groupMap[DefaultGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   DefaultGroup,
			Scenes: defaultGroup,
		})
	}

	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "living-room" -> "Living Room"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
