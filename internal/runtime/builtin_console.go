package runtime

import "fmt"

// registerConsole binds the console natives. Arguments render in their
// display form, joined by spaces. log and warn write to the output
// stream; only error goes to the error stream.
func registerConsole(i *Interpreter) {
	i.registry.RegisterFn("console_log", func(args []Value) (Value, error) {
		fmt.Fprintln(i.out, ValuesString(args, " "))
		return UndefinedVal{}, nil
	})

	i.registry.RegisterFn("console_error", func(args []Value) (Value, error) {
		fmt.Fprintln(i.errOut, ValuesString(args, " "))
		return UndefinedVal{}, nil
	})

	i.registry.RegisterFn("console_warn", func(args []Value) (Value, error) {
		fmt.Fprintln(i.out, "WARN: "+ValuesString(args, " "))
		return UndefinedVal{}, nil
	})
}
