package parser

import (
	"strings"

	"ptxparse/pkg/ast"
)

// typeSizes maps a type suffix to its width in bytes. Types missing here are
// rejected with an UnknownTypeError.
var typeSizes = map[string]int{
	".s8":    1,
	".s16":   2,
	".s32":   4,
	".s64":   8,
	".u8":    1,
	".u16":   2,
	".u32":   4,
	".u64":   8,
	".f16":   2,
	".f16x2": 4,
	".f32":   4,
	".f64":   8,
	".b8":    1,
	".b16":   2,
	".b32":   4,
	".b64":   8,
	".b128":  16,
}

// TypeSize returns the width in bytes of a type suffix such as ".b64"
func TypeSize(ty string) (int, bool) {
	size, ok := typeSizes[ty]
	return size, ok
}

// decodeParameters fills params.Params from params.Raw. Each line holding
// exactly three space-separated fields becomes one parameter; other lines are
// skipped. rest is the input starting at params.Raw and anchors errors.
func decodeParameters(params *ast.Parameters, rest string) error {
	offset := 0
	for _, segment := range strings.Split(params.Raw, "\n") {
		start := offset
		offset += len(segment) + 1
		line := strings.TrimSpace(segment)
		line = strings.TrimSuffix(line, ",")
		fields := strings.Split(line, " ")
		if len(fields) != 3 {
			continue
		}
		ty, name := fields[1], fields[2]
		size, ok := TypeSize(ty)
		if !ok {
			lead := len(segment) - len(strings.TrimLeft(segment, " \t\r\n"))
			return &UnknownTypeError{Type: ty, remaining: rest[start+lead:]}
		}
		params.Params = append(params.Params, ast.Parameter{
			Name: name,
			Type: ty,
			Size: size,
			Raw:  line,
		})
	}
	return nil
}
