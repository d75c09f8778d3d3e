package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewDeploymentsCommand creates the deployments command group.
func NewDeploymentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deployments",
		Aliases: []string{"deployment", "dep"},
		Short:   "Manage deployments",
		Long:    "Inspect deployment resource trees and run day-2 operations on their nodes",
	}

	cmd.AddCommand(newDeploymentsShowCommand())
	cmd.AddCommand(newDeploymentsOperationsCommand())
	cmd.AddCommand(newDeploymentsRunCommand())
	cmd.AddCommand(newDeploymentsPowerOnCommand())
	cmd.AddCommand(newDeploymentsPowerOffCommand())
	cmd.AddCommand(newDeploymentsRebootCommand())
	cmd.AddCommand(newDeploymentsDestroyCommand())
	cmd.AddCommand(newDeploymentsScaleOutCommand())

	return cmd
}

func newDeploymentsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show RESOURCE_ID",
		Short: "Show a deployment tree",
		Long:  "Fetch a deployment resource and display its full child tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploymentsShowCommand(cmd, args[0])
		},
	}
}

func runDeploymentsShowCommand(cmd *cobra.Command, resourceID string) error {
	deployment, err := fetchDeployment(cmd, resourceID)
	if err != nil {
		return err
	}

	handled, err := renderStructured(deployment)
	if handled {
		return err
	}

	return renderDeploymentTree(deployment)
}

func fetchDeployment(cmd *cobra.Command, resourceID string) (*vra.Deployment, error) {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return nil, err
	}

	deployment, err := client.Deployments().Get(commandContext(), resourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deployment: %w", err)
	}

	return deployment, nil
}

func renderDeploymentTree(deployment *vra.Deployment) error {
	_, _ = os.Stdout.WriteString("Deployment tree:\n\n")

	var skipped []string

	deployment.Walk(func(node *vra.Deployment, depth int) {
		indent := strings.Repeat(" ", depth*constants.TreeIndentStep)
		_, _ = fmt.Fprintf(os.Stdout, "%s%s (%s) %s\n", indent, node.Name, node.Kind, node.ID)

		for _, resourceType := range node.SkippedChildren {
			skipped = append(skipped, fmt.Sprintf("%s under %s", resourceType, node.Name))
		}
	})

	if deployment.Lease != nil && deployment.Lease.End != nil {
		_, _ = fmt.Fprintf(os.Stdout, "\nLease ends: %s\n", formatTime(*deployment.Lease.End))
	}

	if len(skipped) > 0 {
		_, _ = fmt.Fprintf(os.Stdout, "\nSkipped unsupported child resource types: %s\n", strings.Join(skipped, ", "))
	}

	return nil
}

func newDeploymentsOperationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "operations RESOURCE_ID",
		Short: "List deployment operations",
		Long:  "Display the day-2 operations available on a deployment node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploymentsOperationsCommand(cmd, args[0])
		},
	}
}

func runDeploymentsOperationsCommand(cmd *cobra.Command, resourceID string) error {
	deployment, err := fetchDeployment(cmd, resourceID)
	if err != nil {
		return err
	}

	handled, err := renderStructured(deployment.Operations)
	if handled {
		return err
	}

	if len(deployment.Operations) == 0 {
		_, _ = os.Stdout.WriteString("No operations available\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "ID", "Description")

	for _, operation := range deployment.Operations {
		_ = table.Append(operation.Name, operation.ID, formatConfigValue(operation.Description))
	}

	_ = table.Render()

	return nil
}

func newDeploymentsRunCommand() *cobra.Command {
	var (
		parametersJSON string
		force          bool
	)

	cmd := &cobra.Command{
		Use:   "run RESOURCE_ID OPERATION_NAME",
		Short: "Run a day-2 operation",
		Long:  "Fetch the operation template for a deployment node, apply overrides, and submit it",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploymentsRunCommand(cmd, args[0], args[1], parametersJSON, force)
		},
	}

	cmd.Flags().StringVar(&parametersJSON, "parameters", "", "JSON document merged into the operation template")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation for destructive operations")

	return cmd
}

func runDeploymentsRunCommand(cmd *cobra.Command, resourceID, operationName, parametersJSON string, force bool) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := commandContext()

	deployment, err := client.Deployments().Get(ctx, resourceID)
	if err != nil {
		return fmt.Errorf("failed to get deployment: %w", err)
	}

	if operationName == constants.OperationDestroy {
		err = confirmDeletion(fmt.Sprintf("Really destroy deployment '%s'?", deployment.Name), force)
		if err != nil {
			return err
		}
	}

	template, err := client.Deployments().GetOperationTemplate(ctx, deployment, operationName)
	if err != nil {
		return fmt.Errorf("failed to get operation template: %w", err)
	}

	parameters, err := parseParametersJSON(parametersJSON)
	if err != nil {
		return err
	}

	if template == nil {
		template = vra.Template{}
	}

	template = template.ApplyPatch(parameters)

	response, err := client.Deployments().ExecuteOperation(ctx, deployment, operationName, template)
	if err != nil {
		return fmt.Errorf("failed to execute operation: %w", err)
	}

	return outputOperationResult(deployment, operationName, response)
}

func outputOperationResult(deployment *vra.Deployment, operationName string, response vra.Template) error {
	if response != nil {
		handled, err := renderStructured(response)
		if handled {
			return err
		}
	}

	if requestID, ok := response["id"].(string); ok && requestID != "" {
		fmt.Printf("Operation '%s' submitted for '%s' (request %s)\n", operationName, deployment.Name, requestID)
		fmt.Printf("Use 'vra requests watch %s' to follow it\n", requestID)

		return nil
	}

	fmt.Printf("Operation '%s' submitted for '%s'\n", operationName, deployment.Name)

	return nil
}

func newDeploymentsPowerOnCommand() *cobra.Command {
	return newDeploymentLifecycleCommand(
		"power-on RESOURCE_ID",
		"Power on a deployment node",
		constants.OperationPowerOn,
		func(client vra.Client, deployment *vra.Deployment) (vra.Template, error) {
			return client.Deployments().PowerOn(commandContext(), deployment)
		})
}

func newDeploymentsPowerOffCommand() *cobra.Command {
	return newDeploymentLifecycleCommand(
		"power-off RESOURCE_ID",
		"Power off a deployment node",
		constants.OperationPowerOff,
		func(client vra.Client, deployment *vra.Deployment) (vra.Template, error) {
			return client.Deployments().PowerOff(commandContext(), deployment)
		})
}

func newDeploymentsRebootCommand() *cobra.Command {
	return newDeploymentLifecycleCommand(
		"reboot RESOURCE_ID",
		"Reboot a deployment node",
		constants.OperationReboot,
		func(client vra.Client, deployment *vra.Deployment) (vra.Template, error) {
			return client.Deployments().Reboot(commandContext(), deployment)
		})
}

func newDeploymentLifecycleCommand(use, short, operationName string, execute func(vra.Client, *vra.Deployment) (vra.Template, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + " by submitting its server-generated operation template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
			if err != nil {
				return err
			}

			deployment, err := client.Deployments().Get(commandContext(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get deployment: %w", err)
			}

			response, err := execute(client, deployment)
			if err != nil {
				return fmt.Errorf("failed to execute operation: %w", err)
			}

			return outputOperationResult(deployment, operationName, response)
		},
	}
}

func newDeploymentsDestroyCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "destroy RESOURCE_ID",
		Short: "Destroy a deployment",
		Long:  "Tear down a deployment and every resource it provisioned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploymentsDestroyCommand(cmd, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}

func runDeploymentsDestroyCommand(cmd *cobra.Command, resourceID string, force bool) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := commandContext()

	deployment, err := client.Deployments().Get(ctx, resourceID)
	if err != nil {
		return fmt.Errorf("failed to get deployment: %w", err)
	}

	err = confirmDeletion(fmt.Sprintf("Really destroy deployment '%s' and all its resources?", deployment.Name), force)
	if err != nil {
		return err
	}

	response, err := client.Deployments().Destroy(ctx, deployment)
	if err != nil {
		return fmt.Errorf("failed to destroy deployment: %w", err)
	}

	return outputOperationResult(deployment, constants.OperationDestroy, response)
}

func newDeploymentsScaleOutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scale-out RESOURCE_ID CLUSTER_SIZE",
		Short: "Scale out a deployment",
		Long:  "Submit a Scale Out operation that raises the cluster size of every tier component",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploymentsScaleOutCommand(cmd, args[0], args[1])
		},
	}
}

func runDeploymentsScaleOutCommand(cmd *cobra.Command, resourceID, sizeArg string) error {
	size, err := strconv.Atoi(sizeArg)
	if err != nil || size < 1 {
		return fmt.Errorf("%w: '%s'", constants.ErrInvalidScaleValue, sizeArg)
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := commandContext()

	deployment, err := client.Deployments().Get(ctx, resourceID)
	if err != nil {
		return fmt.Errorf("failed to get deployment: %w", err)
	}

	response, err := client.Deployments().ScaleOut(ctx, deployment, size)
	if err != nil {
		return fmt.Errorf("failed to scale out deployment: %w", err)
	}

	return outputOperationResult(deployment, constants.OperationScaleOut, response)
}
