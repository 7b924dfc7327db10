package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/govflow"
	"github.com/viant/govflow/model"
)

const utcConfig = `
log:
  level: error
governance:
  timeZone: UTC
`

const blockScript = `
name: database corruption
incident: orders database corruption
at: "2024-03-04T22:00:00Z"
agentOutputs:
  - role: sre-agent
    skillsUsed: [log-analysis, metrics-correlation]
    findings:
      summary: database checksum errors after failed migration
      evidence: [error logs from orders service]
    confidence: 0.3
  - role: security-agent
    skillsUsed: [threat-detection]
    findings:
      summary: database corruption not caused by intrusion
      evidence: [audit trail of schema changes]
    confidence: 0.3
  - role: governance-agent
    skillsUsed: [policy-evaluation]
    findings:
      summary: database changes require review
      evidence: [change policy document]
    confidence: 0.3
action: Delete corrupted database tables and restart all services
decision:
  kind: block
  rationale: Action is too risky for current conditions
  approver:
    id: u1
    role: incident-commander
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	location := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(location, []byte(content), 0o644))
	return location
}

func execute(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	rootCmd := &cobra.Command{Use: "govflow", SilenceUsage: true, SilenceErrors: true}
	SetupCLI(rootCmd)
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out, err
}

func TestAssessCmd(t *testing.T) {
	configURL := writeFile(t, "govflow.yaml", utcConfig)
	testCases := []struct {
		name        string
		at          string
		expectScore int
	}{
		{name: "night", at: "2024-03-04T22:00:00Z", expectScore: 13},
		{name: "business hours", at: "2024-03-04T10:00:00Z", expectScore: 15},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, "assess", "Delete corrupted database tables and restart all services",
				"--confidence", "0.3", "--at", tc.at, "--config", configURL)
			require.NoError(t, err)
			assessment := &Assessment{}
			require.NoError(t, json.Unmarshal(out.Bytes(), assessment))
			assert.Equal(t, tc.expectScore, assessment.BlastRadius.RiskScore)
			assert.Equal(t, model.RiskCritical, assessment.BlastRadius.RiskLevel)
			assert.Contains(t, assessment.PolicyConflicts, "Database modification requires DBA review")
		})
	}
}

func TestAssessCmd_Context(t *testing.T) {
	configURL := writeFile(t, "govflow.yaml", utcConfig)
	out, err := execute(t, "assess", "Restart the primary instance",
		"--confidence", "0.9", "--at", "2024-03-04T22:00:00Z", "--config", configURL,
		"--context", "postgres connection pool exhausted, auth logins failing",
		"--context", "oauth token errors")
	require.NoError(t, err)
	assessment := &Assessment{}
	require.NoError(t, json.Unmarshal(out.Bytes(), assessment))
	assert.Equal(t, []string{"auth", "database"}, assessment.BlastRadius.AffectedServices)
	assert.Equal(t, model.RiskHigh, assessment.BlastRadius.RiskLevel)
}

func TestAssessCmd_InvalidInput(t *testing.T) {
	_, err := execute(t, "assess", "Restart api", "--confidence", "1.5")
	assert.Error(t, err)
	_, err = execute(t, "assess", "Restart api", "--at", "yesterday")
	assert.Error(t, err)
	_, err = execute(t, "assess")
	assert.Error(t, err)
}

func TestScenarioCmd(t *testing.T) {
	configURL := writeFile(t, "govflow.yaml", utcConfig)
	scriptURL := writeFile(t, "block.yaml", blockScript)

	out, err := execute(t, "scenario", scriptURL, "--config", configURL)
	require.NoError(t, err)
	report := &Report{}
	require.NoError(t, json.Unmarshal(out.Bytes(), report))

	assert.Equal(t, "database corruption", report.Name)
	assert.Equal(t, model.StateTerminated, report.FinalState)
	assert.Equal(t, model.RiskCritical, report.Request.BlastRadius.RiskLevel)
	assert.False(t, report.Approval.Options[0].Available)
	assert.True(t, report.Decision.Success)
	assert.True(t, report.Decision.WorkflowTerminated)
	require.NotNil(t, report.Audit)
	assert.True(t, report.Audit.Verification.Valid)
	assert.NotEmpty(t, report.Audit.Digest)
}

func TestRun_ApproveAndResolve(t *testing.T) {
	script, err := LoadScript(context.Background(), writeFile(t, "approve.yaml", blockScript))
	require.NoError(t, err)
	for _, output := range script.AgentOutputs {
		output.Confidence = 0.95
	}
	script.Action = "Clear cache on redis"
	script.Decision.Kind = model.DecisionApproveWithRestrictions
	script.Decision.Restrictions = []string{"monitor hit ratio for 30m"}
	script.Resolve = true

	config, err := loadTestConfig(t)
	require.NoError(t, err)
	report, err := Run(context.Background(), config, script)
	require.NoError(t, err)
	assert.Equal(t, model.StateResolved, report.FinalState)
	assert.Equal(t, []string{"monitor hit ratio for 30m"}, report.Decision.Decision.Restrictions)
}

func TestLoadScript_RequiresAction(t *testing.T) {
	_, err := LoadScript(context.Background(), writeFile(t, "empty.yaml", "name: nothing\n"))
	assert.Error(t, err)
}

func loadTestConfig(t *testing.T) (*govflow.Config, error) {
	t.Helper()
	return govflow.ParseConfig([]byte(utcConfig))
}
