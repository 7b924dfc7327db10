package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/govflow"
	"github.com/viant/govflow/internal/clock"
	"github.com/viant/govflow/model"
	"github.com/viant/govflow/service/audit"
	"github.com/viant/govflow/service/governance"
	"gopkg.in/yaml.v3"
)

// Script drives one workflow from creation to a governance decision.
type Script struct {
	Name         string               `yaml:"name"`
	Incident     string               `yaml:"incident"`
	At           string               `yaml:"at"`
	AgentOutputs []*model.AgentOutput `yaml:"agentOutputs"`
	Action       string               `yaml:"action"`
	Decision     ScriptDecision       `yaml:"decision"`
	// Resolve continues an approved workflow through VERIFIED to RESOLVED.
	Resolve bool `yaml:"resolve"`
}

type ScriptDecision struct {
	Kind         model.DecisionKind `yaml:"kind"`
	Rationale    string             `yaml:"rationale"`
	Approver     model.Approver     `yaml:"approver"`
	Restrictions []string           `yaml:"restrictions"`
}

// Report is what a scenario run prints.
type Report struct {
	Name       string                        `json:"name,omitempty"`
	WorkflowID string                        `json:"workflowId"`
	FinalState model.State                   `json:"finalState"`
	Request    *governance.Request           `json:"governanceRequest"`
	Approval   *governance.ApprovalInterface `json:"approvalInterface"`
	Decision   *governance.DecisionResult    `json:"decisionResult"`
	Audit      *audit.Bundle                 `json:"audit"`
}

// LoadScript reads a YAML scenario from any afs-supported URL.
func LoadScript(ctx context.Context, URL string) (*Script, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download scenario %s", URL)
	}
	ret := &Script{}
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, errors.Wrapf(err, "failed to decode scenario %s", URL)
	}
	if ret.Action == "" {
		return nil, fmt.Errorf("scenario %s: action is required", URL)
	}
	return ret, nil
}

// Run executes script against a fresh Service built from config.
func Run(ctx context.Context, config *govflow.Config, script *Script) (*Report, error) {
	options := []govflow.Option{govflow.WithConfig(config)}
	if script.At != "" {
		at, err := time.Parse(time.RFC3339, script.At)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario time: %w", err)
		}
		options = append(options, govflow.WithClock(clock.Fixed(at)))
	}
	srv, err := govflow.New(ctx, options...)
	if err != nil {
		return nil, err
	}
	defer srv.Close(ctx)
	engine := srv.Engine()

	wf, err := engine.CreateWorkflow(ctx)
	if err != nil {
		return nil, err
	}
	report := &Report{Name: script.Name, WorkflowID: wf.ID}
	if err = advance(ctx, engine.TransitionTo, wf.ID, model.StateIncidentIngested, model.StateAnalyzing); err != nil {
		return nil, err
	}
	for _, output := range script.AgentOutputs {
		if _, err = engine.AddAgentOutput(ctx, wf.ID, output); err != nil {
			return nil, fmt.Errorf("agent output %s rejected: %w", output.Role, err)
		}
	}
	if err = advance(ctx, engine.TransitionTo, wf.ID, model.StateRCAComplete, model.StateGovernancePending); err != nil {
		return nil, err
	}
	if report.Request, err = srv.RequestGovernance(ctx, wf.ID, script.Action, script.Incident); err != nil {
		return nil, err
	}
	report.Approval = srv.Gate().ApprovalInterface(ctx, report.Request.ID)
	d := script.Decision
	report.Decision = srv.Gate().ProcessDecision(ctx, report.Request.ID, d.Kind, d.Rationale, d.Approver, d.Restrictions)
	if report.Decision.Success && !report.Decision.WorkflowTerminated && script.Resolve {
		if err = advance(ctx, engine.TransitionTo, wf.ID, model.StateVerified, model.StateResolved); err != nil {
			return nil, err
		}
	}
	if report.FinalState, err = engine.CurrentState(ctx, wf.ID); err != nil {
		return nil, err
	}
	if report.Audit, err = srv.AuditLog().ExportArtifacts(ctx, wf.ID); err != nil {
		return nil, err
	}
	return report, nil
}

type transitionFn func(ctx context.Context, id string, target model.State) (*model.Workflow, error)

func advance(ctx context.Context, transition transitionFn, id string, states ...model.State) error {
	for _, state := range states {
		if _, err := transition(ctx, id, state); err != nil {
			return err
		}
	}
	return nil
}

func newScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario [script URL]",
		Short: "Drive a workflow through the engine and gate from a YAML script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			config, err := loadConfig(ctx, cmd)
			if err != nil {
				return err
			}
			script, err := LoadScript(ctx, args[0])
			if err != nil {
				return err
			}
			report, err := Run(ctx, config, script)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
}
