package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	for in, want := range map[string]string{
		"```json\n{\"a\":1}\n```":  `{"a":1}`,
		"```JSON\n{\"a\":1}\n```":  `{"a":1}`,
		"```\n{\"a\":1}\n```":      `{"a":1}`,
		"  ```json{\"a\":1}```  ":  `{"a":1}`,
		"{\"a\":1}":                `{"a":1}`,
		"{\"a\":1}\n```":           `{"a":1}`,
		"```":                      "",
		"plain text":               "plain text",
		"```python\nprint(1)\n```": "print(1)",
	} {
		assert.Equal(t, want, StripCodeFences(in), in)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab...", Truncate("abc", 2))
}
