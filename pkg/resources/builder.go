package resources

// ToolBuilder is a fluent builder for tool definitions.
type ToolBuilder struct {
	tool Tool
}

// ParameterBuilder builds a single tool parameter.
type ParameterBuilder struct {
	name     string
	property SchemaProperty
	tool     *ToolBuilder
}

// NewTool creates a new tool builder
func NewTool(name string) *ToolBuilder {
	return &ToolBuilder{
		tool: Tool{
			Name: name,
			InputSchema: InputSchema{
				Type:       "object",
				Properties: make(map[string]SchemaProperty),
				Required:   []string{},
			},
		},
	}
}

// WithDescription sets the description of the tool
func (b *ToolBuilder) WithDescription(description string) *ToolBuilder {
	b.tool.Description = description
	return b
}

// WithString adds a string parameter to the tool
func (b *ToolBuilder) WithString(name string) *ParameterBuilder {
	return &ParameterBuilder{
		name:     name,
		property: SchemaProperty{Type: "string"},
		tool:     b,
	}
}

// WithNumber adds a number parameter to the tool
func (b *ToolBuilder) WithNumber(name string) *ParameterBuilder {
	return &ParameterBuilder{
		name:     name,
		property: SchemaProperty{Type: "number"},
		tool:     b,
	}
}

// WithInteger adds an integer parameter to the tool
func (b *ToolBuilder) WithInteger(name string) *ParameterBuilder {
	return &ParameterBuilder{
		name:     name,
		property: SchemaProperty{Type: "integer"},
		tool:     b,
	}
}

// WithBoolean adds a boolean parameter to the tool
func (b *ToolBuilder) WithBoolean(name string) *ParameterBuilder {
	return &ParameterBuilder{
		name:     name,
		property: SchemaProperty{Type: "boolean"},
		tool:     b,
	}
}

// Build builds the tool
func (b *ToolBuilder) Build() Tool {
	return b.tool
}

// Required marks the parameter as required
func (b *ParameterBuilder) Required() *ParameterBuilder {
	b.tool.tool.InputSchema.Required = append(b.tool.tool.InputSchema.Required, b.name)
	return b
}

// Description sets the description of the parameter
func (b *ParameterBuilder) Description(description string) *ParameterBuilder {
	b.property.Description = description
	return b
}

// Default sets the default value of the parameter
func (b *ParameterBuilder) Default(value interface{}) *ParameterBuilder {
	b.property.Default = value
	return b
}

// Range constrains a numeric parameter to [min, max].
func (b *ParameterBuilder) Range(min, max float64) *ParameterBuilder {
	b.property.Minimum = &min
	b.property.Maximum = &max
	return b
}

// Add adds the parameter to the tool and returns the tool builder
func (b *ParameterBuilder) Add() *ToolBuilder {
	b.tool.tool.InputSchema.Properties[b.name] = b.property
	return b.tool
}
