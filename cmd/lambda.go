package cmd

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdLambda() *cobra.Command {
	cmd := &cobra.Command{
		Use: "lambda",
	}

	cmd.AddCommand(
		cmdLambdaHTTP(),
		cmdLambdaEvent(),
	)

	bindEnvMap(cmd, lambdaEnvMapString)

	return cmd
}

// cmdLambdaHTTP runs the lambda in HTTP payload mode.
func cmdLambdaHTTP() *cobra.Command {
	return &cobra.Command{
		Use: "http",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newGatewayRuntime(cmd)
			if err != nil {
				return errors.Wrap(err, "failed to setup lambda")
			}

			logger.Info("lambda starting...")
			lambda.StartWithOptions(rt.Lambda,
				lambda.WithContext(cmd.Context()))
			return nil
		},
	}
}

// cmdLambdaEvent runs the lambda in EventBridge payload mode.
func cmdLambdaEvent() *cobra.Command {
	return &cobra.Command{
		Use: "event",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newGatewayRuntime(cmd)
			if err != nil {
				return errors.Wrap(err, "failed to setup lambda")
			}

			logger.Info("lambda starting...")
			lambda.StartWithOptions(rt.LambdaForEvent,
				lambda.WithContext(cmd.Context()))
			return nil
		},
	}
}
