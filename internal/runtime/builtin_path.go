package runtime

import "path/filepath"

// registerPath binds the path natives.
func registerPath(i *Interpreter) {
	i.registry.RegisterFn("path_join", func(args []Value) (Value, error) {
		parts := make([]string, 0, len(args))
		for idx := range args {
			s, err := stringArg(args, idx, "path.join")
			if err != nil {
				return nil, err
			}
			parts = append(parts, s)
		}
		return StringVal(filepath.Join(parts...)), nil
	})

	i.registry.RegisterFn("path_dirname", func(args []Value) (Value, error) {
		p, err := stringArg(args, 0, "path.dirname")
		if err != nil {
			return nil, err
		}
		return StringVal(filepath.Dir(p)), nil
	})

	i.registry.RegisterFn("path_basename", func(args []Value) (Value, error) {
		p, err := stringArg(args, 0, "path.basename")
		if err != nil {
			return nil, err
		}
		return StringVal(filepath.Base(p)), nil
	})
}
