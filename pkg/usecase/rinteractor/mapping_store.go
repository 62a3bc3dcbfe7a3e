// 指示: miu200521358
package rinteractor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
)

const (
	// boneMappingFileSuffix is the store's file naming convention.
	boneMappingFileSuffix = ".boneMapping.json"
	boneMappingFileMode   = 0o644
	boneMappingDirMode    = 0o755
)

// boneMappingFile is the on-disk JSON shape of a bone mapping. The mapping
// field is the compatibility key; the other fields are advisory.
type boneMappingFile struct {
	Name          string            `json:"name"`
	SourceRigType string            `json:"sourceRigType"`
	TargetRigType string            `json:"targetRigType"`
	Mapping       map[string]string `json:"mapping"`
	Confidence    float64           `json:"confidence"`
	CreatedAt     string            `json:"createdAt"`
}

// SaveBoneMapping writes a mapping to path in the persistence format.
func SaveBoneMapping(path string, mapping *model.BoneMapping) error {
	if mapping == nil {
		return errors.New("bone mapping is nil")
	}

	createdAt := mapping.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	file := boneMappingFile{
		Name:          mapping.Name,
		SourceRigType: string(mapping.SourceRigType),
		TargetRigType: string(mapping.TargetRigType),
		Mapping:       mapping.Pairs,
		Confidence:    mapping.Confidence,
		CreatedAt:     createdAt.UTC().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to encode bone mapping %s", mapping.Name)
	}
	if err := os.WriteFile(path, data, boneMappingFileMode); err != nil {
		return errors.Wrapf(err, "failed to write bone mapping file %s", path)
	}
	return nil
}

// LoadBoneMapping reads a mapping from path.
func LoadBoneMapping(path string) (*model.BoneMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read bone mapping file %s", path)
	}

	var file boneMappingFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "failed to decode bone mapping file %s", path)
	}

	mapping := model.NewBoneMapping()
	mapping.Name = file.Name
	mapping.SourceRigType = model.RigType(file.SourceRigType)
	mapping.TargetRigType = model.RigType(file.TargetRigType)
	mapping.Confidence = file.Confidence
	for sourceName, targetName := range file.Mapping {
		mapping.Add(sourceName, targetName)
	}
	if file.CreatedAt != "" {
		if createdAt, parseErr := time.Parse(time.RFC3339, file.CreatedAt); parseErr == nil {
			mapping.CreatedAt = createdAt
		}
	}
	return mapping, nil
}

// IsCompatibleBoneMapping reports whether two mappings map the same pairs.
// Compatibility is keyed on the mapping field only.
func IsCompatibleBoneMapping(a *model.BoneMapping, b *model.BoneMapping) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, sourceName := range a.SourceNames() {
		targetA, _ := a.Target(sourceName)
		targetB, exists := b.Target(sourceName)
		if !exists || targetA != targetB {
			return false
		}
	}
	return true
}

// MappingStore persists named bone mappings inside one directory.
type MappingStore struct {
	Dir string
}

// NewMappingStore returns a store rooted at dir.
func NewMappingStore(dir string) *MappingStore {
	return &MappingStore{Dir: dir}
}

// path renders the file path of one named mapping.
func (s *MappingStore) path(name string) string {
	return filepath.Join(s.Dir, name+boneMappingFileSuffix)
}

// Save writes a mapping under the given name, creating the directory.
func (s *MappingStore) Save(name string, mapping *model.BoneMapping) error {
	if err := os.MkdirAll(s.Dir, boneMappingDirMode); err != nil {
		return errors.Wrapf(err, "failed to create mapping store directory %s", s.Dir)
	}
	stored := mapping.Clone()
	stored.Name = name
	return SaveBoneMapping(s.path(name), stored)
}

// Load reads the mapping stored under the given name.
func (s *MappingStore) Load(name string) (*model.BoneMapping, error) {
	return LoadBoneMapping(s.path(name))
}

// List returns the stored mapping names in sorted order.
func (s *MappingStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to list mapping store directory %s", s.Dir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), boneMappingFileSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), boneMappingFileSuffix))
	}
	sort.Strings(names)
	return names, nil
}
