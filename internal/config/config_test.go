package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Operator: OperatorConfig{Account: "operator"},
		Tiers:    defaultTiers(),
	}
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_RequiresOperatorAccount(t *testing.T) {
	cfg := validConfig()
	cfg.Operator.Account = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsDuplicateTierIDs(t *testing.T) {
	cfg := validConfig()
	cfg.Tiers = append(cfg.Tiers, cfg.Tiers[0])
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsOverpromisedPayouts(t *testing.T) {
	cfg := validConfig()
	cfg.Tiers = []TierConfig{{
		ID:              1,
		EntryFee:        100,
		PrizeAmount:     250,
		ProfitAmount:    51, // 301 promised against 300 collectible
		MaxParticipants: 3,
	}}
	assert.Error(t, cfg.Validate())
}

func TestEngineTiers_KeyedByID(t *testing.T) {
	cfg := validConfig()
	tiers := cfg.EngineTiers()
	require.Len(t, tiers, 2)

	tier1, ok := tiers[1]
	require.True(t, ok)
	assert.Equal(t, int64(1_250_000_000_000_000), tier1.EntryFee)
	assert.Equal(t, int64(25_000_000_000_000_000), tier1.PrizeAmount)
	assert.Equal(t, int64(12_500_000_000_000_000), tier1.ProfitAmount)
	assert.Equal(t, 100, tier1.MaxParticipants)

	tier2, ok := tiers[2]
	require.True(t, ok)
	assert.Equal(t, 10*tier1.EntryFee, tier2.EntryFee)
	assert.Equal(t, 10*tier1.PrizeAmount, tier2.PrizeAmount)
	assert.Equal(t, 10*tier1.ProfitAmount, tier2.ProfitAmount)
}
