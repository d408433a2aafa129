package runtime

import (
	"os"

	"github.com/joho/godotenv"
)

// registerEnv binds the env natives: process environment access plus
// dotenv loading, so scripts see the same configuration as the host.
func registerEnv(i *Interpreter) {
	i.registry.RegisterFn("env_get", func(args []Value) (Value, error) {
		name, err := stringArg(args, 0, "env.get")
		if err != nil {
			return nil, err
		}
		val, ok := os.LookupEnv(name)
		if !ok {
			return UndefinedVal{}, nil
		}
		return StringVal(val), nil
	})

	i.registry.RegisterFn("env_load", func(args []Value) (Value, error) {
		path := ".env"
		if len(args) > 0 {
			p, err := stringArg(args, 0, "env.load")
			if err != nil {
				return nil, err
			}
			path = p
		}
		if err := godotenv.Load(path); err != nil {
			return BoolVal(false), nil
		}
		return BoolVal(true), nil
	})
}
