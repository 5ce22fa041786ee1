package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/variantdev/heroku-deploy/pkg/config/viperconf"
)

// boolValue is a boolean flag that takes yes/no words as well as true/false.
// It can be given bare, as --name=VALUE or as --name VALUE.
type boolValue bool

func (b *boolValue) Set(s string) error {
	v, err := viperconf.ParseBool(s)
	if err != nil {
		return err
	}
	*b = boolValue(v)
	return nil
}

func (b *boolValue) String() string {
	return strconv.FormatBool(bool(*b))
}

func (b *boolValue) Type() string {
	return "bool"
}

func boolFlag(f *pflag.FlagSet, name, usage string) {
	v := boolValue(false)
	flag := f.VarPF(&v, name, "", usage)
	flag.NoOptDefVal = "true"
}

// joinBoolArgs rewrites "--name VALUE" into "--name=VALUE" for boolean flags of f when VALUE is a boolean word.
// pflag would otherwise treat VALUE as a positional argument.
func joinBoolArgs(f *pflag.FlagSet, args []string) []string {
	joined := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(joined, args[i:]...)
		}

		joined = append(joined, arg)

		if !strings.HasPrefix(arg, "--") || strings.Contains(arg, "=") || i+1 >= len(args) {
			continue
		}
		flag := f.Lookup(strings.TrimPrefix(arg, "--"))
		if flag == nil {
			continue
		}
		if _, ok := flag.Value.(*boolValue); !ok {
			continue
		}
		if _, err := viperconf.ParseBool(args[i+1]); err != nil || args[i+1] == "" {
			continue
		}

		joined[len(joined)-1] = arg + "=" + args[i+1]
		i++
	}
	return joined
}
