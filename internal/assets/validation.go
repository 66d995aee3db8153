package assets

import "fmt"

// maxAssetNameLength bounds theme and template names.
const maxAssetNameLength = 64

// ValidateAssetName checks that name can only select a file inside an asset
// directory: ASCII letters, digits, '-' and '_', not starting with '-'.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case len(name) > maxAssetNameLength:
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidAssetName, maxAssetNameLength)
	case name[0] == '-':
		return fmt.Errorf("%w: %q starts with '-'", ErrInvalidAssetName, name)
	}
	for _, r := range name {
		if !isNameRune(r) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidAssetName, name, r)
		}
	}
	return nil
}

func isNameRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_'
}
