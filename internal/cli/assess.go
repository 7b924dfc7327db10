package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/govflow/internal/clock"
	"github.com/viant/govflow/model"
	"github.com/viant/govflow/policy"
	"github.com/viant/govflow/service/governance/risk"
)

// Assessment is the offline evaluation of a recommended action.
type Assessment struct {
	Action          string             `json:"action"`
	ConfidenceLevel float64            `json:"confidenceLevel"`
	BusinessHours   bool               `json:"businessHours"`
	BlastRadius     *model.BlastRadius `json:"blastRadius"`
	PolicyConflicts []string           `json:"policyConflicts"`
}

func newAssessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess [action]",
		Short: "Compute the blast radius and policy conflicts of an action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			config, err := loadConfig(ctx, cmd)
			if err != nil {
				return err
			}
			confidence, err := cmd.Flags().GetFloat64("confidence")
			if err != nil {
				return err
			}
			if confidence < 0 || confidence > 1 {
				return fmt.Errorf("confidence must be within [0,1], got %v", confidence)
			}
			at, err := cmd.Flags().GetString("at")
			if err != nil {
				return err
			}
			contextText, err := cmd.Flags().GetStringArray("context")
			if err != nil {
				return err
			}
			c := clock.System()
			if at != "" {
				ts, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				c = clock.Fixed(ts)
			}
			hours, err := config.BusinessHours()
			if err != nil {
				return err
			}
			assessor := risk.NewAssessor(risk.WithClock(c), risk.WithBusinessHours(hours))
			ret := &Assessment{
				Action:          args[0],
				ConfidenceLevel: confidence,
				BusinessHours:   assessor.IsBusinessHours(),
				BlastRadius:     assessor.Assess(args[0], confidence, contextText...),
			}
			ret.PolicyConflicts = policy.FromConfig(&config.Policy).Conflicts(policy.Input{
				Action:          ret.Action,
				ConfidenceLevel: confidence,
				BlastRadius:     ret.BlastRadius,
				BusinessHours:   ret.BusinessHours,
			})
			return printJSON(cmd.OutOrStdout(), ret)
		},
	}
	cmd.Flags().Float64("confidence", 1, "analysis confidence in [0,1]")
	cmd.Flags().String("at", "", "evaluation time (RFC3339), defaults to now")
	cmd.Flags().StringArray("context", nil, "incident summary, finding or correlation text (repeatable)")
	return cmd
}
