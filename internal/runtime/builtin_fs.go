package runtime

import (
	"fmt"
	"os"
)

// registerFS binds the filesystem natives.
func registerFS(i *Interpreter) {
	i.registry.RegisterFn("fs_readFile", func(args []Value) (Value, error) {
		path, err := stringArg(args, 0, "fs.readFile")
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read file '%s': %w", path, err)
		}
		return StringVal(data), nil
	})

	i.registry.RegisterFn("fs_writeFile", func(args []Value) (Value, error) {
		path, err := stringArg(args, 0, "fs.writeFile")
		if err != nil {
			return nil, err
		}
		content, err := stringArg(args, 1, "fs.writeFile")
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("cannot write file '%s': %w", path, err)
		}
		return UndefinedVal{}, nil
	})

	i.registry.RegisterFn("fs_exists", func(args []Value) (Value, error) {
		path, err := stringArg(args, 0, "fs.exists")
		if err != nil {
			return nil, err
		}
		_, statErr := os.Stat(path)
		return BoolVal(statErr == nil), nil
	})
}

// stringArg fetches a required string argument.
func stringArg(args []Value, idx int, fn string) (string, error) {
	if idx >= len(args) {
		return "", fmt.Errorf("%s expects at least %d arguments", fn, idx+1)
	}
	s, ok := args[idx].(StringVal)
	if !ok {
		return "", fmt.Errorf("%s argument %d must be a string, got '%s'", fn, idx+1, args[idx].TypeName())
	}
	return string(s), nil
}
