// Package suite loads declarative test suites from YAML and turns them into
// an executable node tree.
package suite

// Action types.
const (
	ActionPass  = "pass"
	ActionFail  = "fail"
	ActionAbort = "abort"
	ActionPanic = "panic"
)

// Suite is the root of a suite file.
type Suite struct {
	Version    string            `yaml:"version" validate:"required,semver"`
	Name       string            `yaml:"name" validate:"required"`
	Parameters map[string]string `yaml:"parameters,omitempty"`
	Classes    []Class           `yaml:"classes" validate:"required,min=1,dive"`
}

// Class groups methods sharing lifecycle hooks.
type Class struct {
	Name        string   `yaml:"name" validate:"required,identifier"`
	DisplayName string   `yaml:"display_name,omitempty"`
	Disabled    string   `yaml:"disabled,omitempty"`
	BeforeEach  []Hook   `yaml:"before_each,omitempty" validate:"dive"`
	AfterEach   []Hook   `yaml:"after_each,omitempty" validate:"dive"`
	Methods     []Method `yaml:"methods" validate:"required,min=1,dive"`
}

// Hook is a before-each or after-each lifecycle method.
type Hook struct {
	Name   string `yaml:"name" validate:"required,identifier"`
	Action Action `yaml:"action,omitempty"`
}

// Method is a scripted test method. With values it fans out into one
// invocation per value row.
type Method struct {
	Name        string              `yaml:"name" validate:"required,identifier"`
	DisplayName string              `yaml:"display_name,omitempty"`
	Disabled    string              `yaml:"disabled,omitempty"`
	Params      []string            `yaml:"params,omitempty" validate:"dive,identifier"`
	Values      map[string][]string `yaml:"values,omitempty"`
	Action      Action              `yaml:"action,omitempty"`
}

// Action is what a scripted method does when invoked. Message and report
// values may reference arguments as {name}.
type Action struct {
	Type    string            `yaml:"type,omitempty" validate:"omitempty,oneof=pass fail abort panic"`
	Message string            `yaml:"message,omitempty"`
	When    map[string]string `yaml:"when,omitempty"`
	Report  map[string]string `yaml:"report,omitempty"`
}

// Kind returns the action type, defaulting to pass.
func (a Action) Kind() string {
	if a.Type == "" {
		return ActionPass
	}
	return a.Type
}
