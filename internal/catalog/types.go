// Package catalog maintains the per-light-type capability table. The table
// is sourced from the NeewerLite remote database, cached durably in bbolt,
// and refreshed at most once per refresh interval. Once any snapshot has
// loaded the process is never left without a table: a failed refresh keeps
// the last known good data.
package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/srg/neewerctl/internal/protocol"
)

// CCTRange bounds the color temperature a light accepts, in device units.
type CCTRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// LightCapability is one light type's capability record as the remote
// database publishes it. Records are read-only after load; a refresh
// replaces the whole table, never individual records.
type LightCapability struct {
	Type            int      `json:"type"`
	Name            string   `json:"name,omitempty"`
	Link            string   `json:"link,omitempty"`
	Image           string   `json:"image,omitempty"`
	SupportRGB      bool     `json:"supportRGB"`
	SupportCCTGM    bool     `json:"supportCCTGM"`
	Support9FX      bool     `json:"support9FX"`
	Support17FX     bool     `json:"support17FX"`
	CCTRange        CCTRange `json:"cctRange"`
	NewPowerCommand bool     `json:"newPowerLightCommand"`
	NewRGBCommand   bool     `json:"newRGBLightCommand"`
}

// defaultCCTRange applies when a record omits its range; the 3200K-5600K
// band is the narrowest any known bi-color fixture ships with.
var defaultCCTRange = CCTRange{Min: 32, Max: 56}

// EffectiveCCTRange returns the record's CCT bounds, falling back to the
// conservative default when the database omits them.
func (c *LightCapability) EffectiveCCTRange() CCTRange {
	if c == nil || (c.CCTRange.Min == 0 && c.CCTRange.Max == 0) {
		return defaultCCTRange
	}
	return c.CCTRange
}

// FormatCapability projects the record onto the flags that drive command
// format selection. A nil receiver yields nil, which SelectFormat treats as
// the conservative default.
func (c *LightCapability) FormatCapability() *protocol.FormatCapability {
	if c == nil {
		return nil
	}
	return &protocol.FormatCapability{
		NewPowerCommand: c.NewPowerCommand,
		NewRGBCommand:   c.NewRGBCommand,
		Support9FX:      c.Support9FX,
		Support17FX:     c.Support17FX,
	}
}

// Database is the top-level remote document.
type Database struct {
	Version int               `json:"version"`
	Lights  []LightCapability `json:"lights"`
}

// ParseDatabase decodes and validates a database document. Validation is
// deliberately shallow: the document must carry a lights list and every
// entry must carry its type key, since type is the join key everything else
// hangs off.
func ParseDatabase(raw []byte) (*Database, error) {
	var db Database
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, fmt.Errorf("decode lights database: %w", err)
	}
	if db.Lights == nil {
		return nil, fmt.Errorf("lights database has no lights list")
	}
	for i, light := range db.Lights {
		if light.Type == 0 {
			return nil, fmt.Errorf("lights database entry %d has no type", i)
		}
	}
	return &db, nil
}

// table builds the light-type index for one parsed document. If the list
// ever carried duplicate types the first entry wins, matching a linear
// first-match scan.
func (db *Database) table() map[int]*LightCapability {
	t := make(map[int]*LightCapability, len(db.Lights))
	for i := range db.Lights {
		light := db.Lights[i]
		if _, dup := t[light.Type]; dup {
			continue
		}
		t[light.Type] = &light
	}
	return t
}
