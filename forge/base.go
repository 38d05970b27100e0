package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// The SystemType identifies each of the gameplay systems.
type SystemType uint

const (
	SystemTypeUnknown SystemType = iota
	SystemTypeCatalog
	SystemTypeDrops
	SystemTypeInventory
	SystemTypeCrafting
	SystemTypeProgression
)

func (t SystemType) String() string {
	switch t {
	case SystemTypeCatalog:
		return "catalog"
	case SystemTypeDrops:
		return "drops"
	case SystemTypeInventory:
		return "inventory"
	case SystemTypeCrafting:
		return "crafting"
	case SystemTypeProgression:
		return "progression"
	default:
		return "unknown"
	}
}

// A System is a self-contained set of gameplay rules driven by its own
// configuration document.
type System interface {
	// GetType provides the runtime type of the gameplay system.
	GetType() SystemType

	// GetConfig returns the configuration type of the gameplay system.
	GetConfig() any
}

// SystemConfig describes where a system's configuration document is found.
type SystemConfig interface {
	GetType() SystemType
	GetConfigFile() string
}

type systemConfig struct {
	systemType SystemType
	configFile string
}

func (sc *systemConfig) GetType() SystemType   { return sc.systemType }
func (sc *systemConfig) GetConfigFile() string { return sc.configFile }

// NewSystemConfig creates a SystemConfig for the given system type backed by
// a JSON or YAML content file.
func NewSystemConfig(systemType SystemType, configFile string) SystemConfig {
	return &systemConfig{systemType: systemType, configFile: configFile}
}

// Forge combines the gameplay systems and opens per-profile sessions.
type Forge interface {
	GetCatalogSystem() CatalogSystem
	GetDropSystem() DropSystem
	GetInventorySystem() InventorySystem
	GetCraftingSystem() CraftingSystem
	GetProgressionSystem() ProgressionSystem

	// Activate loads (or initializes) the durable snapshot for a profile and
	// returns a session owning that state. All mutating operations go through
	// the session; there is no ambient profile state.
	Activate(ctx context.Context, logger *zap.Logger, store Store, profileID string, opts ...SessionOption) (*Session, error)
}

// forgeImpl implements the Forge interface.
type forgeImpl struct {
	systems map[SystemType]System
}

// Init initializes a Forge with the configurations provided. Content files
// are validated eagerly: a bad catalog, recipe or drop table fails here, not
// at use time.
func Init(logger *zap.Logger, configs ...SystemConfig) (Forge, error) {
	f := &forgeImpl{
		systems: make(map[SystemType]System),
	}

	for _, config := range configs {
		if err := f.initSystem(logger, config); err != nil {
			return nil, err
		}
	}

	catalog := f.GetCatalogSystem()
	if catalog == nil {
		return nil, fmt.Errorf("%w: a catalog system config is required", ErrConfigInvalid)
	}

	// Inventory and crafting have no standalone content files; progression
	// defaults to the full 98-level run when not configured explicitly.
	if _, ok := f.systems[SystemTypeInventory]; !ok {
		f.systems[SystemTypeInventory] = NewInventorySystem()
	}
	if _, ok := f.systems[SystemTypeCrafting]; !ok {
		f.systems[SystemTypeCrafting] = NewCraftingSystem()
	}
	if _, ok := f.systems[SystemTypeProgression]; !ok {
		progression, err := NewProgressionSystem(&ProgressionConfig{})
		if err != nil {
			return nil, err
		}
		f.systems[SystemTypeProgression] = progression
	}

	for _, system := range f.systems {
		if aware, ok := system.(forgeAware); ok {
			aware.SetForge(f)
		}
	}

	// Cross-system validation needs every system present, so it runs last.
	if drops := f.GetDropSystem(); drops != nil {
		if err := drops.ValidateAgainst(catalog, f.GetProgressionSystem().MaxLevel()); err != nil {
			return nil, err
		}
	}
	if err := f.GetProgressionSystem().ValidateAgainst(catalog); err != nil {
		return nil, err
	}

	logger.Info("forge initialized",
		zap.Int("systems", len(f.systems)),
		zap.Int("items", len(catalog.Items())),
		zap.Int("max_level", f.GetProgressionSystem().MaxLevel()))

	return f, nil
}

// forgeAware is implemented by systems that need cross-system lookups.
type forgeAware interface {
	SetForge(f Forge)
}

func (f *forgeImpl) initSystem(logger *zap.Logger, config SystemConfig) error {
	logger.Info("initializing system",
		zap.String("type", config.GetType().String()),
		zap.String("config_file", config.GetConfigFile()))

	doc, err := readConfigDoc(config.GetConfigFile())
	if err != nil {
		logger.Error("failed to read config file",
			zap.String("config_file", config.GetConfigFile()), zap.Error(err))
		return err
	}

	var system System

	switch config.GetType() {
	case SystemTypeCatalog:
		if err := validateSchema(catalogSchema, doc); err != nil {
			return fmt.Errorf("%w: catalog config %s: %v", ErrConfigInvalid, config.GetConfigFile(), err)
		}
		catalogConfig := &CatalogConfig{}
		if err := json.Unmarshal(doc, catalogConfig); err != nil {
			logger.Error("failed to parse catalog config", zap.Error(err))
			return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
		}
		system, err = NewCatalogSystem(catalogConfig)
		if err != nil {
			return err
		}

	case SystemTypeDrops:
		if err := validateSchema(dropsSchema, doc); err != nil {
			return fmt.Errorf("%w: drops config %s: %v", ErrConfigInvalid, config.GetConfigFile(), err)
		}
		dropConfig := &DropConfig{}
		if err := json.Unmarshal(doc, dropConfig); err != nil {
			logger.Error("failed to parse drops config", zap.Error(err))
			return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
		}
		system, err = NewDropSystem(dropConfig)
		if err != nil {
			return err
		}

	case SystemTypeProgression:
		progressionConfig := &ProgressionConfig{}
		if err := json.Unmarshal(doc, progressionConfig); err != nil {
			logger.Error("failed to parse progression config", zap.Error(err))
			return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
		}
		system, err = NewProgressionSystem(progressionConfig)
		if err != nil {
			return err
		}

	case SystemTypeInventory:
		system = NewInventorySystem()

	case SystemTypeCrafting:
		system = NewCraftingSystem()

	default:
		logger.Error("unknown system type", zap.Uint("type", uint(config.GetType())))
		return NewError("unknown system type", INVALID_ARGUMENT_ERROR_CODE)
	}

	f.systems[config.GetType()] = system
	return nil
}

// readConfigDoc loads a content file and normalizes it to JSON bytes. YAML
// documents are accepted and converted so downstream decoding and schema
// validation only ever see JSON.
func readConfigDoc(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
		}
		return json.Marshal(v)
	default:
		return data, nil
	}
}

func (f *forgeImpl) GetCatalogSystem() CatalogSystem {
	if sys, ok := f.systems[SystemTypeCatalog].(CatalogSystem); ok {
		return sys
	}
	return nil
}

func (f *forgeImpl) GetDropSystem() DropSystem {
	if sys, ok := f.systems[SystemTypeDrops].(DropSystem); ok {
		return sys
	}
	return nil
}

func (f *forgeImpl) GetInventorySystem() InventorySystem {
	if sys, ok := f.systems[SystemTypeInventory].(InventorySystem); ok {
		return sys
	}
	return nil
}

func (f *forgeImpl) GetCraftingSystem() CraftingSystem {
	if sys, ok := f.systems[SystemTypeCrafting].(CraftingSystem); ok {
		return sys
	}
	return nil
}

func (f *forgeImpl) GetProgressionSystem() ProgressionSystem {
	if sys, ok := f.systems[SystemTypeProgression].(ProgressionSystem); ok {
		return sys
	}
	return nil
}
