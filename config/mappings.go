package config

import (
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"
)

// Mappings rename Java methods and classes to existing Objective-C
// selectors and classes.
//
// Method keys are "declaring.type.name" followed by the JVM method
// descriptor, for example "java.lang.Object.equals(Ljava/lang/Object;)Z".
// Values are full Objective-C selectors ("isEqual:").
type Mappings struct {
	Methods map[string]string `yaml:"methods" validate:"dive,keys,required,endkeys,required"`
	Classes map[string]string `yaml:"classes" validate:"dive,keys,required,endkeys,required"`
}

var builtinMethods = map[string]string{
	"java.lang.Object.hashCode()I":                  "hash",
	"java.lang.Object.equals(Ljava/lang/Object;)Z":  "isEqual:",
	"java.lang.Object.toString()Ljava/lang/String;": "description",
	"java.lang.Object.getClass()Ljava/lang/Class;":  "getClass",
}

var builtinClasses = map[string]string{
	"java.lang.Object": "NSObject",
	"java.lang.String": "NSString",
	"java.lang.Number": "NSNumber",
	"java.lang.Class":  "IOSClass",
}

// BuiltinMappings returns a fresh copy of the mappings every run starts
// from.
func BuiltinMappings() *Mappings {
	return &Mappings{Methods: maps.Clone(builtinMethods), Classes: maps.Clone(builtinClasses)}
}

// LoadMappings merges the YAML mapping files at paths over the built-in
// mappings. Later files win.
func LoadMappings(paths ...string) (*Mappings, error) {
	m := BuiltinMappings()
	for _, path := range paths {
		data, err := readLimited(path)
		if err != nil {
			return nil, err
		}
		if err := m.Merge(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		log.Debugf("loaded method mappings from %s", path)
	}
	return m, nil
}

// Merge parses a YAML mapping document and adds its entries.
func (m *Mappings) Merge(data []byte) error {
	var doc Mappings
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if err := validate.Struct(&doc); err != nil {
		return fmt.Errorf("invalid mappings: %w", err)
	}
	if m.Methods == nil {
		m.Methods = make(map[string]string)
	}
	if m.Classes == nil {
		m.Classes = make(map[string]string)
	}
	maps.Copy(m.Methods, doc.Methods)
	maps.Copy(m.Classes, doc.Classes)
	return nil
}

// Method returns the selector mapped for key.
func (m *Mappings) Method(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	sel, ok := m.Methods[key]
	return sel, ok
}

// Class returns the Objective-C class mapped for a qualified Java name.
func (m *Mappings) Class(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	c, ok := m.Classes[name]
	return c, ok
}
