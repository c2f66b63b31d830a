package tools

import (
	"encoding/json"
	"regexp"

	"notebookagent/model"
)

var toolBlockPattern = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")

// Detect finds the first fenced json block in reply. found is false when
// there is no block, or when the block decodes to an object without a
// "tool" key. err is set when the block is not valid JSON.
func Detect(reply string) (inv model.ToolInvocation, found bool, err error) {
	match := toolBlockPattern.FindStringSubmatch(reply)
	if match == nil {
		return model.ToolInvocation{}, false, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(match[1]), &raw); err != nil {
		return model.ToolInvocation{}, true, err
	}
	if _, ok := raw["tool"]; !ok {
		return model.ToolInvocation{}, false, nil
	}

	if err := json.Unmarshal([]byte(match[1]), &inv); err != nil {
		return model.ToolInvocation{}, true, err
	}
	if inv.Parameters == nil {
		inv.Parameters = map[string]any{}
	}
	return inv, true, nil
}
