package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName               = "bool"
	toggleFlagTrueLiteral            = "true"
	toggleFlagAcceptedValuesListing  = "true, false, yes, no, on, off, 1, 0"
	toggleFlagInvalidValueErrorLabel = "invalid boolean value"
	flagArgumentTerminator           = "--"
	longFlagPrefix                   = "--"
)

var toggleFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

func interpretToggleLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return true, true
	}
	value, known := toggleFlagLiterals[normalized]
	return value, known
}

// toggleFlagValue is a boolean flag that accepts yes/no style literals and may be given
// bare, with "=value", or followed by a separate literal argument.
type toggleFlagValue struct {
	target  *bool
	flagKey string
}

func (value *toggleFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf("%s %q", toggleFlagInvalidValueErrorLabel, input)
	}
	parsed, ok := interpretToggleLiteral(input)
	if !ok {
		return fmt.Errorf("%s %q for --%s; accepted values: %s", toggleFlagInvalidValueErrorLabel, input, value.flagKey, toggleFlagAcceptedValuesListing)
	}
	*value.target = parsed
	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleFlagValue) Type() string {
	return toggleFlagTypeName
}

func registerToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.Var(&toggleFlagValue{target: target, flagKey: name}, name, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = strconv.FormatBool(defaultValue)
		lookup.NoOptDefVal = toggleFlagTrueLiteral
	}
}

// NormalizeArguments joins "--flag literal" pairs into "--flag=literal" for every toggle
// flag in the command tree so that a bare toggle never swallows a positional argument.
func NormalizeArguments(command *cobra.Command, arguments []string) []string {
	if command == nil || len(arguments) == 0 {
		return arguments
	}
	toggleFlags := map[string]struct{}{}
	collectToggleFlagNames(command, toggleFlags)
	if len(toggleFlags) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	index := 0
	for index < len(arguments) {
		currentArgument := arguments[index]
		if currentArgument == flagArgumentTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if strings.HasPrefix(currentArgument, longFlagPrefix) && !strings.Contains(currentArgument, "=") {
			flagName := strings.TrimPrefix(currentArgument, longFlagPrefix)
			if _, isToggle := toggleFlags[flagName]; isToggle && index+1 < len(arguments) {
				nextArgument := arguments[index+1]
				if _, isLiteral := interpretToggleLiteral(nextArgument); isLiteral && nextArgument != "" && !strings.HasPrefix(nextArgument, "-") {
					normalized = append(normalized, fmt.Sprintf("%s%s=%s", longFlagPrefix, flagName, nextArgument))
					index += 2
					continue
				}
			}
		}
		normalized = append(normalized, currentArgument)
		index++
	}
	return normalized
}

func collectToggleFlagNames(command *cobra.Command, target map[string]struct{}) {
	if command == nil || target == nil {
		return
	}
	visit := func(flagSet *pflag.FlagSet) {
		if flagSet == nil {
			return
		}
		flagSet.VisitAll(func(flag *pflag.Flag) {
			if flag == nil || flag.Value == nil {
				return
			}
			if _, isToggle := flag.Value.(*toggleFlagValue); isToggle {
				target[flag.Name] = struct{}{}
			}
		})
	}
	visit(command.PersistentFlags())
	visit(command.Flags())
	for _, child := range command.Commands() {
		collectToggleFlagNames(child, target)
	}
}
