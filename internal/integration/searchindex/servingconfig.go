package searchindex

import (
	"fmt"
	"strings"

	"github.com/whymaker/chat-backend/internal/config"
	"github.com/whymaker/chat-backend/internal/entity"
)

const (
	defaultCollection    = "default_collection"
	defaultServingConfig = "default_search"
)

// BuildTargets derives the serving-config targets from configuration.
// Precedence: explicit override (single target, no fallback), then
// engine-scoped config (with a data-store fallback when one is configured),
// then data-store-scoped config alone.
func BuildTargets(cfg *config.SearchConnectorConfig) (*entity.SearchTargets, error) {
	if override := strings.TrimSpace(cfg.ServingConfigOverride); override != "" {
		return &entity.SearchTargets{
			Primary: entity.SearchTarget{
				Kind: entity.TargetOverride,
				Path: strings.TrimPrefix(override, "/"),
			},
		}, nil
	}

	if cfg.EngineID != "" {
		targets := &entity.SearchTargets{
			Primary: entity.SearchTarget{
				Kind: entity.TargetEngine,
				Path: enginePath(cfg.ProjectID, cfg.Location, cfg.EngineID),
			},
		}
		if cfg.DataStoreID != "" {
			targets.Fallback = &entity.SearchTarget{
				Kind: entity.TargetDataStore,
				Path: dataStorePath(cfg.ProjectID, cfg.Location, cfg.DataStoreID),
			}
		}
		return targets, nil
	}

	if cfg.DataStoreID != "" {
		return &entity.SearchTargets{
			Primary: entity.SearchTarget{
				Kind: entity.TargetDataStore,
				Path: dataStorePath(cfg.ProjectID, cfg.Location, cfg.DataStoreID),
			},
		}, nil
	}

	return nil, entity.ErrMissingSearchTarget
}

func enginePath(projectID, location, engineID string) string {
	return fmt.Sprintf("projects/%s/locations/%s/collections/%s/engines/%s/servingConfigs/%s",
		projectID, location, defaultCollection, engineID, defaultServingConfig)
}

func dataStorePath(projectID, location, dataStoreID string) string {
	return fmt.Sprintf("projects/%s/locations/%s/collections/%s/dataStores/%s/servingConfigs/%s",
		projectID, location, defaultCollection, dataStoreID, defaultServingConfig)
}
