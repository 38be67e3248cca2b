// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Christian Gudrian

package node

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cgudrian/qbidib/pkg/bidib"
)

// Config describes the emulated node: its identity, the node table
// entries behind it, feature values and user strings. Zero fields are
// filled with the defaults of the reference node.
type Config struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`

	ID             IDConfig       `yaml:"id"`
	Nodes          []IDConfig     `yaml:"nodes"`
	BoosterVoltage byte           `yaml:"booster_voltage"`
	Features       map[byte]byte  `yaml:"features"`
	Strings        []StringConfig `yaml:"strings"`
}

// IDConfig is the YAML form of a unique ID.
type IDConfig struct {
	Switch    bool   `yaml:"switch"`
	Booster   bool   `yaml:"booster"`
	Accessory bool   `yaml:"accessory"`
	DccProg   bool   `yaml:"dcc_prog"`
	DccMain   bool   `yaml:"dcc_main"`
	Ui        bool   `yaml:"ui"`
	Occupancy bool   `yaml:"occupancy"`
	Bridge    bool   `yaml:"bridge"`
	VendorID  byte   `yaml:"vendor_id"`
	ProductID uint32 `yaml:"product_id"`
}

// StringConfig is one user string table entry.
type StringConfig struct {
	Namespace byte   `yaml:"namespace"`
	ID        byte   `yaml:"id"`
	Value     string `yaml:"value"`
}

func (c IDConfig) uniqueID() bidib.UniqueID {
	var class byte
	if c.Switch {
		class |= bidib.ClassSwitch
	}
	if c.Booster {
		class |= bidib.ClassBooster
	}
	if c.Accessory {
		class |= bidib.ClassAccessory
	}
	if c.DccProg {
		class |= bidib.ClassDccProg
	}
	if c.DccMain {
		class |= bidib.ClassDccMain
	}
	if c.Ui {
		class |= bidib.ClassUi
	}
	if c.Occupancy {
		class |= bidib.ClassOccupancy
	}
	if c.Bridge {
		class |= bidib.ClassBridge
	}
	return bidib.UniqueID{
		ClassID:   class,
		VendorID:  c.VendorID,
		ProductID: c.ProductID,
	}
}

func (c Config) uniqueID() bidib.UniqueID {
	return c.ID.uniqueID()
}

// featureValues merges the configured feature overrides over the
// default feature table of the reference node.
func (c Config) featureValues(measureInterval time.Duration) map[byte]byte {
	values := map[byte]byte{
		bidib.FeatureBstAmpere:                 147,
		bidib.FeatureBstCurMeasInterval:        byte(measureInterval.Milliseconds() / 10),
		bidib.FeatureBstCutoutAvailable:        1,
		bidib.FeatureBstCutoutOn:               1,
		bidib.FeatureBstInhibitAutostart:       0,
		bidib.FeatureBstVolt:                   c.BoosterVoltage,
		bidib.FeatureBstVoltAdjustable:         1,
		bidib.FeatureCtrlServoCount:            16,
		bidib.FeatureAccessoryCount:            16,
		bidib.FeatureFwUpdateMode:              0,
		bidib.FeatureGenWatchdog:               10,
		bidib.FeatureStringSize:                24,
		bidib.FeatureStringNamespacesAvailable: 0b101,
	}
	for id, v := range c.Features {
		values[id] = v
	}
	return values
}

// DefaultConfig returns the built-in node: a booster/accessory/DCC
// node with a second, accessory-only table entry.
func DefaultConfig() Config {
	return Config{
		Port: "/tmp/bidib-interface-B",
		Baud: 115200,
		ID: IDConfig{
			Booster:   true,
			Accessory: true,
			DccMain:   true,
			VendorID:  0x0D,
			ProductID: 0xDEADBEEF,
		},
		Nodes: []IDConfig{{
			Accessory: true,
			VendorID:  0x0D,
			ProductID: 0xCAFEBABE,
		}},
		BoosterVoltage: 12,
		Strings: []StringConfig{
			{Namespace: 0, ID: 0, Value: "Roy"},
			{Namespace: 0, ID: 1, Value: "Größenwahn"},
		},
	}
}

// LoadConfig reads a YAML node configuration. An empty path yields the
// defaults; sections absent from the file keep their default values,
// except that the default node table entries are only used when the id
// section is absent as well.
func LoadConfig(path string) (Config, error) {
	def := DefaultConfig()
	if path == "" {
		return def, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Port == "" {
		cfg.Port = def.Port
	}
	if cfg.Baud <= 0 {
		cfg.Baud = def.Baud
	}
	if cfg.ID == (IDConfig{}) {
		cfg.ID = def.ID
		if cfg.Nodes == nil {
			cfg.Nodes = def.Nodes
		}
	}
	if cfg.BoosterVoltage == 0 {
		cfg.BoosterVoltage = def.BoosterVoltage
	}
	if cfg.Strings == nil {
		cfg.Strings = def.Strings
	}
	return cfg, nil
}
