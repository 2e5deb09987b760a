package validation

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcegraph/iso20022-validate/rules"
)

const agentDocument = `<Document>
  <CdtTrfTxInf>
    <CdtrAgt><FinInstnId><BIC>BOFAUS3N</BIC></FinInstnId></CdtrAgt>
  </CdtTrfTxInf>
</Document>`

func TestAggregatorEmpty(t *testing.T) {
	aggregator := NewAggregator(validDocument)
	assert.Equal(t, 0, aggregator.Len())
	assert.True(t, aggregator.Validate())
	assert.Empty(t, aggregator.Errors())
	assert.Equal(t, 0, aggregator.Result().Applicable())
}

func TestAggregatorAllInapplicable(t *testing.T) {
	aggregator := NewAggregator(validDocument)
	aggregator.Add(&rules.RuleSet{RequiredElements: []string{"CdtrAgt"}, RootElement: "Nope"}, "agents")
	aggregator.Add(&rules.RuleSet{RequiredElements: []string{"RmtInf/Ustrd"}}, "remittance")

	assert.True(t, aggregator.Validate())
	assert.Empty(t, aggregator.Errors())

	result := aggregator.Result()
	assert.Equal(t, []string{"agents", "remittance"}, result.Skipped)
	assert.Equal(t, 0, result.Applicable())
}

func TestAggregatorInvalidBIC(t *testing.T) {
	aggregator := NewAggregator(agentDocument)
	aggregator.Add(&rules.RuleSet{
		RequiredElements: []string{"CdtrAgt/FinInstnId/BIC"},
		ExpectedValues:   values("CdtrAgt/FinInstnId/BIC", "INVALIDBIC"),
	}, "BIC Validator")

	assert.False(t, aggregator.Validate())
	require.Len(t, aggregator.Errors(), 1)
	assert.Contains(t, aggregator.Errors()[0], "BIC Validator")
	assert.Contains(t, aggregator.Errors()[0], "Expected: 'INVALIDBIC', Found: 'BOFAUS3N'")
	assert.True(t, strings.HasPrefix(aggregator.Errors()[0], "[BIC Validator] "))
}

func TestAggregatorMixedOutcomes(t *testing.T) {
	aggregator := NewAggregator(validDocument)
	aggregator.Add(nil, "default")
	aggregator.Add(&rules.RuleSet{
		RequiredElements: []string{"SvcLvl", "LclInstrm"},
		ExpectedValues:   values("SvcLvl/Prtry", "SEPA"),
	}, "sepa")
	aggregator.Add(&rules.RuleSet{RequiredElements: []string{"CdtrAgt"}}, "agents")
	aggregator.Add(&rules.RuleSet{RootElement: "AppHdr"}, "")

	assert.Equal(t, 4, aggregator.Len())
	assert.False(t, aggregator.Validate())
	assert.Equal(t, []string{
		"[sepa] Required element missing: LclInstrm",
		"[sepa] Invalid value for SvcLvl/Prtry. Expected: 'SEPA', Found: 'NURG'",
		"[Validator] Root element is 'Document' but expected 'AppHdr'",
	}, aggregator.Errors())

	result := aggregator.Result()
	assert.False(t, result.Success)
	assert.Equal(t, []string{"default"}, result.Passed)
	assert.Equal(t, []string{"sepa", "Validator"}, result.Failed)
	assert.Equal(t, []string{"agents"}, result.Skipped)
	assert.Equal(t, 3, result.Applicable())
}

func TestAggregatorAllApplicablePass(t *testing.T) {
	aggregator := NewAggregator(validDocument)
	aggregator.Add(rules.Default(), "default")
	aggregator.Add(&rules.RuleSet{RootElement: "Document"}, "root")
	aggregator.Add(&rules.RuleSet{RequiredElements: []string{"CdtrAgt"}}, "agents")

	assert.True(t, aggregator.Validate())
	assert.Empty(t, aggregator.Errors())
	assert.Equal(t, 2, aggregator.Result().Applicable())
}

func TestAggregatorFailingValidatorContributesItsOwnErrors(t *testing.T) {
	rs := &rules.RuleSet{RequiredElements: []string{"SvcLvl", "A", "B", "C"}}

	standalone := New(validDocument, WithRuleSet(rs))
	require.False(t, standalone.Validate())

	aggregator := NewAggregator(validDocument)
	aggregator.Add(rules.Default(), "default")
	aggregator.Add(rs, "abc")
	assert.False(t, aggregator.Validate())
	require.Len(t, aggregator.Errors(), len(standalone.Errors()))

	for i, message := range standalone.Errors() {
		assert.Equal(t, "[abc] "+message, aggregator.Errors()[i])
	}
}

func TestAggregatorUsesRuleSetName(t *testing.T) {
	aggregator := NewAggregator(validDocument)
	validator := aggregator.Add(&rules.RuleSet{Name: "named", RootElement: "Other"}, "")
	assert.Equal(t, "named", validator.Name())

	validator = aggregator.Add(&rules.RuleSet{Name: "named"}, "override")
	assert.Equal(t, "override", validator.Name())
}

func TestAggregatorRevalidateClearsErrors(t *testing.T) {
	aggregator := NewAggregator(invalidValuesDocument)
	aggregator.Add(nil, "default")

	assert.False(t, aggregator.Validate())
	assert.False(t, aggregator.Validate())
	assert.Len(t, aggregator.Errors(), 2)
}

func TestAggregatorParseFault(t *testing.T) {
	aggregator := NewAggregator("<Document><SvcLvl>")
	aggregator.Add(nil, "default")
	aggregator.Add(&rules.RuleSet{RootElement: "Document"}, "root")

	assert.False(t, aggregator.Validate())
	require.Len(t, aggregator.Errors(), 1)
	assert.True(t, strings.HasPrefix(aggregator.Errors()[0], "[root] Invalid XML: "))

	result := aggregator.Result()
	assert.Equal(t, []string{"default"}, result.Skipped)
	require.Len(t, result.ParseErrors, 1)
}

func TestAggregatorParseFaultOnlyInapplicable(t *testing.T) {
	aggregator := NewAggregator("not xml")
	aggregator.Add(nil, "default")

	assert.True(t, aggregator.Validate(), "no validator applies to an unparseable document")
	assert.Empty(t, aggregator.Errors())
	assert.Len(t, aggregator.Result().ParseErrors, 1)
}

func TestAggregatorLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	aggregator := NewAggregator(validDocument, WithLogger(logger))
	aggregator.Add(nil, "default")
	aggregator.Add(&rules.RuleSet{RequiredElements: []string{"CdtrAgt"}}, "agents")
	aggregator.Add(&rules.RuleSet{RootElement: "AppHdr"}, "root")
	aggregator.Validate()

	output := buf.String()
	assert.Contains(t, output, "validator=default")
	assert.Contains(t, output, "Skipping rule set")
	assert.Contains(t, output, "Rule set failed")
}

func TestResultRequireWellFormed(t *testing.T) {
	aggregator := NewAggregator("not xml")
	aggregator.Add(nil, "default")
	aggregator.Validate()

	result := aggregator.Result().RequireWellFormed()
	assert.False(t, result.Success)
	assert.Equal(t, result.ParseErrors, result.Errors)

	aggregator = NewAggregator(validDocument)
	aggregator.Add(nil, "default")
	aggregator.Validate()
	assert.Equal(t, aggregator.Result(), aggregator.Result().RequireWellFormed())
}
