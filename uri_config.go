package sqlite

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	m "github.com/marcboeker/go-sqlite/mapping"
)

// uriParams holds the URI query parameters applied after open. A nil field
// was absent from the URI. Unknown parameters are ignored.
type uriParams struct {
	// Mode is consumed by the engine.
	Mode              *string `mapstructure:"mode"`
	JournalMode       *string `mapstructure:"journal_mode"`
	LockingMode       *string `mapstructure:"locking_mode"`
	ForeignKeys       *bool   `mapstructure:"foreign_keys"`
	EnableTriggers    *bool   `mapstructure:"enable_triggers"`
	RecursiveTriggers *bool   `mapstructure:"recursive_triggers"`
	QueryOnly         *bool   `mapstructure:"query_only"`
	Synchronous       *string `mapstructure:"synchronous"`
}

var (
	journalModes = map[string]struct{}{
		"delete": {}, "truncate": {}, "persist": {}, "memory": {}, "wal": {}, "off": {},
	}
	synchronousModes = map[string]struct{}{
		"off": {}, "normal": {}, "full": {}, "extra": {}, "0": {}, "1": {}, "2": {}, "3": {},
	}
	boolValues = map[string]bool{
		"on": true, "yes": true, "true": true, "1": true,
		"off": false, "no": false, "false": false, "0": false,
	}
)

// stringToBoolHookFunc decodes the boolean spellings the engine accepts in URIs.
func stringToBoolHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
			return data, nil
		}
		s := data.(string)
		b, ok := boolValues[strings.ToLower(s)]
		if !ok {
			return nil, fmt.Errorf("%q is not a boolean", s)
		}
		return b, nil
	}
}

func parseURIParams(location string) (uriParams, error) {
	var p uriParams

	u, err := url.Parse(location)
	if err != nil {
		return p, wrapperError(err.Error(), "")
	}

	// The engine honors the first occurrence of a parameter.
	query := u.Query()
	input := make(map[string]any, len(query))
	for k, v := range query {
		if len(v) > 0 {
			input[k] = v[0]
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: stringToBoolHookFunc(),
		MatchName:  func(mapKey, fieldName string) bool { return mapKey == fieldName },
		Result:     &p,
	})
	if err != nil {
		return p, err
	}
	if err = decoder.Decode(input); err != nil {
		return p, wrapperError(err.Error(), "")
	}
	return p, nil
}

type uriAction struct {
	name  string
	apply func(c *Conn) error
}

// actions lists the configuration steps in the order they are applied.
func (p uriParams) actions() []uriAction {
	var actions []uriAction
	if p.JournalMode != nil {
		v := *p.JournalMode
		actions = append(actions, uriAction{"journal_mode", func(c *Conn) error {
			return c.applyKeywordPragma("journal_mode", v, journalModes)
		}})
	}
	if p.LockingMode != nil {
		v := *p.LockingMode
		actions = append(actions, uriAction{"locking_mode", func(c *Conn) error {
			logf("[DEBUG] connection %s ignores locking_mode=%s", c.id, v)
			return nil
		}})
	}
	if p.ForeignKeys != nil {
		v := *p.ForeignKeys
		actions = append(actions, uriAction{"foreign_keys", func(c *Conn) error {
			return c.setConfigFlag(m.DBConfigEnableFKey, v)
		}})
	}
	if p.EnableTriggers != nil {
		v := *p.EnableTriggers
		actions = append(actions, uriAction{"enable_triggers", func(c *Conn) error {
			return c.setConfigFlag(m.DBConfigEnableTrigger, v)
		}})
	}
	if p.RecursiveTriggers != nil {
		v := *p.RecursiveTriggers
		actions = append(actions, uriAction{"recursive_triggers", func(c *Conn) error {
			return c.applyBoolPragma("recursive_triggers", v)
		}})
	}
	if p.QueryOnly != nil {
		v := *p.QueryOnly
		actions = append(actions, uriAction{"query_only", func(c *Conn) error {
			return c.applyBoolPragma("query_only", v)
		}})
	}
	if p.Synchronous != nil {
		v := *p.Synchronous
		actions = append(actions, uriAction{"synchronous", func(c *Conn) error {
			return c.applyKeywordPragma("synchronous", v, synchronousModes)
		}})
	}
	return actions
}

// applyURIConfig applies the query parameters of location to c and stops at
// the first failure. The caller closes c on failure.
func applyURIConfig(c *Conn, location string) error {
	p, err := parseURIParams(location)
	if err != nil {
		return err
	}
	for _, a := range p.actions() {
		if err = a.apply(c); err != nil {
			return fmt.Errorf("%s: %w", a.name, err)
		}
	}
	return nil
}

func (c *Conn) setConfigFlag(op int, on bool) error {
	v := 0
	if on {
		v = 1
	}
	if rc, _ := m.DBConfigFlag(c.db, op, v); rc != m.ResultOK {
		return dbError(c.db, rc, "")
	}
	return nil
}

func (c *Conn) applyBoolPragma(name string, on bool) error {
	v := "OFF"
	if on {
		v = "ON"
	}
	return c.fastExec("PRAGMA " + name + "=" + v)
}

// applyKeywordPragma sets a pragma whose value must be one of keywords. The
// value is checked before it becomes part of the SQL text.
func (c *Conn) applyKeywordPragma(name string, value string, keywords map[string]struct{}) error {
	v := strings.ToLower(value)
	if _, ok := keywords[v]; !ok {
		return wrapperError(fmt.Sprintf("invalid %s: %q", name, value), "")
	}
	return c.fastExec("PRAGMA " + name + "=" + v)
}
