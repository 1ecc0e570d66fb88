package replay

import (
	"encoding/json"
	"fmt"

	"compreplay/internal/common"
)

// InvocationDescriptor is a compiler run recorded on one machine, to be replayed on another:
//
//	{
//	  "Tool": "csc",
//	  "Arguments": "/target:library /out:obj\\App.dll Program.cs",
//	  "ProjectFilePath": "C:\\src\\App\\App.csproj",
//	  "PathMappings": [ { "From": "C:\\src", "To": "/work/src" } ]
//	}
//
// PathMappings are tried in order, see common.PathMapper.
type InvocationDescriptor struct {
	Tool            string               `json:"Tool"`
	Arguments       string               `json:"Arguments"`
	ProjectFilePath string               `json:"ProjectFilePath"`
	PathMappings    []common.PathMapping `json:"PathMappings"`
}

// invocationDescriptorWire tells an absent field from an empty one.
type invocationDescriptorWire struct {
	Tool            *string           `json:"Tool"`
	Arguments       *string           `json:"Arguments"`
	ProjectFilePath *string           `json:"ProjectFilePath"`
	PathMappings    []pathMappingWire `json:"PathMappings"`
}

type pathMappingWire struct {
	From *string `json:"From"`
	To   *string `json:"To"`
}

// LoadDescriptor parses a serialized invocation.
// Tool, Arguments and ProjectFilePath are required (but may be empty strings); PathMappings defaults to none.
// Any problem is a *DeserializationError, no descriptor is synthesized from partial input.
func LoadDescriptor(serializedText string) (InvocationDescriptor, error) {
	var wire invocationDescriptorWire
	if err := json.Unmarshal([]byte(serializedText), &wire); err != nil {
		return InvocationDescriptor{}, &DeserializationError{Err: err}
	}

	switch {
	case wire.Tool == nil:
		return InvocationDescriptor{}, &DeserializationError{Field: "Tool"}
	case wire.Arguments == nil:
		return InvocationDescriptor{}, &DeserializationError{Field: "Arguments"}
	case wire.ProjectFilePath == nil:
		return InvocationDescriptor{}, &DeserializationError{Field: "ProjectFilePath"}
	}

	descriptor := InvocationDescriptor{
		Tool:            *wire.Tool,
		Arguments:       *wire.Arguments,
		ProjectFilePath: *wire.ProjectFilePath,
		PathMappings:    make([]common.PathMapping, 0, len(wire.PathMappings)),
	}
	for i, mapping := range wire.PathMappings {
		if mapping.From == nil || mapping.To == nil {
			return InvocationDescriptor{}, &DeserializationError{Field: fmt.Sprintf("PathMappings[%d]", i), Err: fmt.Errorf("both From and To are required")}
		}
		descriptor.PathMappings = append(descriptor.PathMappings, common.PathMapping{From: *mapping.From, To: *mapping.To})
	}
	return descriptor, nil
}

// Serialize is the inverse of LoadDescriptor.
func (descriptor InvocationDescriptor) Serialize() (string, error) {
	if descriptor.PathMappings == nil {
		descriptor.PathMappings = []common.PathMapping{}
	}
	data, err := json.MarshalIndent(descriptor, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
