package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaResource = "tabdeck.json"

// GenerateSchema generates the JSON Schema for tabdeck.yml. Extensions are
// not part of it; they are handled by the packages that own them.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Unknown typed keys are rejected.
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	// Config without Extensions, which has no fixed shape.
	type BaseConfig struct {
		Version string        `yaml:"version" jsonschema:"required,description=Configuration version (e.g. '1.0')"`
		Theme   string        `yaml:"theme,omitempty" jsonschema:"enum=kanagawa,enum=gruvbox,enum=terminal,description=TUI color palette"`
		Icons   string        `yaml:"icons,omitempty" jsonschema:"enum=nerd,enum=ascii,description=Icon set used in the tab bar and menu"`
		Keys    KeysConfig    `yaml:"keys,omitempty" jsonschema:"description=Keybinding settings"`
		Routes  RoutesConfig  `yaml:"routes,omitempty" jsonschema:"description=Route table overrides"`
		Tabs    TabsConfig    `yaml:"tabs,omitempty" jsonschema:"description=Tab session settings"`
		API     APIConfig     `yaml:"api,omitempty" jsonschema:"description=Remote API used by the home page"`
		Server  ServerConfig  `yaml:"server,omitempty" jsonschema:"description=Local session API"`
		Uploads UploadsConfig `yaml:"uploads,omitempty" jsonschema:"description=Upload page limits"`
		Users   UsersConfig   `yaml:"users,omitempty" jsonschema:"description=User management page"`
	}

	schema := r.Reflect(&BaseConfig{})
	schema.Title = "Tabdeck Configuration"
	schema.Description = "Schema for tabdeck.yml and tabdeck.toml."

	return json.MarshalIndent(schema, "", "  ")
}

// Validator validates configuration against the generated schema.
type Validator struct {
	schema *santhosh.Schema
}

// NewValidator compiles the configuration schema.
func NewValidator() (*Validator, error) {
	data, err := GenerateSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}

	compiler := santhosh.NewCompiler()
	if err := compiler.AddResource(schemaResource, strings.NewReader(string(data))); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// Validate checks any value that marshals to the configuration's JSON shape.
func (v *Validator) Validate(configData interface{}) error {
	jsonData, err := json.Marshal(configData)
	if err != nil {
		return fmt.Errorf("failed to marshal config to JSON for validation: %w", err)
	}

	var dataToValidate interface{}
	if err := json.Unmarshal(jsonData, &dataToValidate); err != nil {
		return fmt.Errorf("failed to unmarshal JSON for validation: %w", err)
	}

	if err := v.schema.Validate(dataToValidate); err != nil {
		if validationErr, ok := err.(*santhosh.ValidationError); ok {
			var messages []string
			collectErrors(validationErr, &messages)
			return fmt.Errorf("%s", strings.Join(messages, "\n"))
		}
		return err
	}

	return nil
}

func collectErrors(err *santhosh.ValidationError, messages *[]string) {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		*messages = append(*messages, fmt.Sprintf("- %s: %s", location, err.Message))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}
