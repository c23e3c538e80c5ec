package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/jobgrid/internal/config"
	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decodeCommand evaluates a `command` expression. Strings become shell
// commands, lists and tuples of strings become argv.
func decodeCommand(ctx context.Context, expr hcl.Expression) (config.Command, error) {
	logger := ctxlog.FromContext(ctx)

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return config.Command{}, diags
	}
	if val.IsNull() || !val.IsWhollyKnown() {
		return config.Command{}, fmt.Errorf("command must not be null")
	}

	ty := val.Type()
	logger.Debug("Decoding command expression.", "type", ty.FriendlyName(), "range", expr.Range().String())

	switch {
	case ty == cty.String:
		var shell string
		if err := gocty.FromCtyValue(val, &shell); err != nil {
			return config.Command{}, err
		}
		if shell == "" {
			return config.Command{}, fmt.Errorf("command must not be empty")
		}
		return config.Command{Shell: shell}, nil

	case ty.IsTupleType() || ty.IsListType():
		list, err := convert.Convert(val, cty.List(cty.String))
		if err != nil {
			return config.Command{}, fmt.Errorf("command list must contain only strings: %w", err)
		}
		var argv []string
		if err := gocty.FromCtyValue(list, &argv); err != nil {
			return config.Command{}, err
		}
		if len(argv) == 0 || argv[0] == "" {
			return config.Command{}, fmt.Errorf("command list must start with a program name")
		}
		return config.Command{Argv: argv}, nil

	default:
		return config.Command{}, fmt.Errorf("command must be a string or a list of strings, got %s", ty.FriendlyName())
	}
}
