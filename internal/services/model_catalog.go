package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"proof/internal/assets"
	"proof/internal/models"
)

type rawCatalog struct {
	Families []rawFamily `json:"families"`
}

type rawFamily struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"displayName"`
	Models      []rawModel `json:"models"`
}

type rawModel struct {
	DisplayName string `json:"displayName"`
	Tag         string `json:"tag"`
	SizeHint    string `json:"sizeHint,omitempty"`
}

// ParseCatalog decodes a model catalog. Entries without a tag are dropped and
// a missing display name falls back to the tag.
func ParseCatalog(data []byte) ([]models.CatalogFamily, error) {
	var parsed rawCatalog
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse models asset: %w", err)
	}
	families := make([]models.CatalogFamily, 0, len(parsed.Families))
	for _, f := range parsed.Families {
		id := strings.TrimSpace(f.ID)
		if id == "" {
			continue
		}
		family := models.CatalogFamily{ID: id, DisplayName: f.DisplayName, Models: []models.CatalogModel{}}
		if family.DisplayName == "" {
			family.DisplayName = id
		}
		for _, m := range f.Models {
			tag := strings.TrimSpace(m.Tag)
			if tag == "" {
				continue
			}
			name := m.DisplayName
			if name == "" {
				name = tag
			}
			family.Models = append(family.Models, models.CatalogModel{
				Tag:         tag,
				DisplayName: name,
				Family:      id,
				SizeHint:    m.SizeHint,
			})
		}
		families = append(families, family)
	}
	return families, nil
}

// Catalog returns the suggested models. When the server is already up, models
// it has installed are flagged; the server is never started for this.
func (s *modelService) Catalog(ctx context.Context) ([]models.CatalogFamily, error) {
	s.catalogOnce.Do(func() {
		s.catalog, s.catalogErr = ParseCatalog(s.catalogData)
	})
	if s.catalogErr != nil {
		return nil, s.catalogErr
	}

	installed := map[string]bool{}
	if s.runtime.IsRunning(ctx) {
		tags, err := s.registry.ListModels(ctx)
		if err != nil {
			log.Printf("models: catalog without install state: %v", err)
		}
		for _, t := range tags {
			installed[t.Name] = true
		}
	}

	out := make([]models.CatalogFamily, len(s.catalog))
	for i, f := range s.catalog {
		f.Models = append([]models.CatalogModel(nil), f.Models...)
		for j := range f.Models {
			f.Models[j].Installed = installed[f.Models[j].Tag]
		}
		out[i] = f
	}
	return out, nil
}

func defaultCatalogData() []byte {
	return assets.ModelsData
}
