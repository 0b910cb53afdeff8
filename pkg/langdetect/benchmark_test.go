package langdetect

import (
	"testing"
)

func BenchmarkDetect(b *testing.B) {
	samples := map[string][]byte{
		"go":     []byte("package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}"),
		"python": []byte("def hello():\n    print(\"hi\")\n\nif __name__ == \"__main__\":\n    hello()"),
		"json":   []byte("{\n  \"name\": \"test\",\n  \"version\": \"1.0.0\"\n}"),
		"empty":  nil,
		"small":  []byte("hello"),
	}

	d := New()
	for name, code := range samples {
		b.Run(name, func(b *testing.B) {
			for range b.N {
				d.Detect(code)
			}
		})
	}
}
