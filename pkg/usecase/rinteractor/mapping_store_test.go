// 指示: miu200521358
package rinteractor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
)

func TestBoneMappingRoundTrip(t *testing.T) {
	mapping := model.NewBoneMapping()
	mapping.Name = "mixamo-to-ue5"
	mapping.SourceRigType = model.RigTypeMixamo
	mapping.TargetRigType = model.RigTypeUE5
	mapping.Confidence = 0.87
	mapping.CreatedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	mapping.Add("mixamorig:Hips", "pelvis")
	mapping.Add("mixamorig:LeftHand", "hand_l")

	path := filepath.Join(t.TempDir(), "mapping.json")
	if err := SaveBoneMapping(path, mapping); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := LoadBoneMapping(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !IsCompatibleBoneMapping(mapping, loaded) {
		t.Fatalf("mapping pairs must survive the round trip")
	}
	if loaded.Name != mapping.Name ||
		loaded.SourceRigType != mapping.SourceRigType ||
		loaded.TargetRigType != mapping.TargetRigType ||
		loaded.Confidence != mapping.Confidence {
		t.Fatalf("advisory fields mismatch: got=%+v", loaded)
	}
	if !loaded.CreatedAt.Equal(mapping.CreatedAt) {
		t.Fatalf("createdAt mismatch: got=%v want=%v", loaded.CreatedAt, mapping.CreatedAt)
	}
}

func TestBoneMappingFileUsesSpecFieldNames(t *testing.T) {
	mapping := model.NewBoneMapping()
	mapping.Add("a", "b")

	path := filepath.Join(t.TempDir(), "mapping.json")
	if err := SaveBoneMapping(path, mapping); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, field := range []string{"name", "sourceRigType", "targetRigType", "mapping", "confidence", "createdAt"} {
		if _, exists := raw[field]; !exists {
			t.Fatalf("persistence format missing field %s: %v", field, raw)
		}
	}
}

func TestMappingStoreSaveLoadList(t *testing.T) {
	store := NewMappingStore(filepath.Join(t.TempDir(), "mappings"))

	first := model.NewBoneMapping()
	first.Add("mixamorig:Hips", "pelvis")
	second := model.NewBoneMapping()
	second.Add("mixamorig:Head", "head")

	if err := store.Save("beta", second); err != nil {
		t.Fatalf("save beta failed: %v", err)
	}
	if err := store.Save("alpha", first); err != nil {
		t.Fatalf("save alpha failed: %v", err)
	}

	names, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Fatalf("list mismatch: got=%v", names)
	}

	loaded, err := store.Load("alpha")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Name != "alpha" || !IsCompatibleBoneMapping(first, loaded) {
		t.Fatalf("loaded mapping mismatch: got=%+v", loaded)
	}
}

func TestMappingStoreListEmptyDir(t *testing.T) {
	store := NewMappingStore(filepath.Join(t.TempDir(), "missing"))
	names, err := store.List()
	if err != nil || len(names) != 0 {
		t.Fatalf("missing store directory must list empty: got=(%v,%v)", names, err)
	}
}

func TestIsCompatibleBoneMappingKeyedOnPairsOnly(t *testing.T) {
	a := model.NewBoneMapping()
	a.Name = "a"
	a.Confidence = 0.4
	a.Add("hips", "pelvis")

	b := model.NewBoneMapping()
	b.Name = "b"
	b.Confidence = 0.9
	b.Add("hips", "pelvis")

	if !IsCompatibleBoneMapping(a, b) {
		t.Fatalf("advisory fields must not affect compatibility")
	}

	b.Add("head", "head")
	if IsCompatibleBoneMapping(a, b) {
		t.Fatalf("different pair sets must be incompatible")
	}
}
