package app

import (
	"encoding/base64"
	"encoding/json"

	abci "github.com/cometbft/cometbft/abci/types"
	cmtcrypto "github.com/cometbft/cometbft/proto/tendermint/crypto"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	"github.com/openalpha/custody/metrics"
)

// genesisValidatorPower is the voting power given to validators read from
// the staking or genutil genesis
const genesisValidatorPower = 100

// BeginBlocker executes begin block logic
func (app *App) BeginBlocker(ctx sdk.Context) (sdk.BeginBlock, error) {
	return sdk.BeginBlock{}, nil
}

// EndBlocker refreshes the custody gauges, asserts the invariants on the
// configured period and reports slow blocks
func (app *App) EndBlocker(ctx sdk.Context) (sdk.EndBlock, error) {
	logger := app.Logger()
	blockHeight := ctx.BlockHeight()
	total := metrics.NewTimer()

	for _, m := range app.custodyModules {
		timer := metrics.NewTimer()
		if err := m.EndBlocker(ctx); err != nil {
			logger.Error("module end blocker failed", "module", m.Name(), "block", blockHeight, "error", err)
		}
		logger.Debug("module end blocker", "module", m.Name(), "block", blockHeight, "duration_ms", timer.ElapsedMs())
	}

	if period := app.config.InvariantCheckPeriod; period > 0 && blockHeight%period == 0 {
		if err := app.AssertInvariants(ctx); err != nil {
			logger.Error("custody invariant broken", "block", blockHeight, "error", err)
		}
	}

	elapsed := total.ElapsedMs()
	metrics.GetCollector().EndBlockLatency.Observe(elapsed)

	if threshold := app.config.SlowEndBlockMs; threshold > 0 && elapsed > float64(threshold) {
		logger.Warn("EndBlocker exceeded latency threshold",
			"block", blockHeight,
			"duration_ms", elapsed,
			"threshold_ms", threshold,
		)
	}

	return sdk.EndBlock{}, nil
}

// StakingGenesisState represents the staking module's genesis state
type StakingGenesisState struct {
	Validators []struct {
		ConsensusPubkey struct {
			Type string `json:"@type"`
			Key  string `json:"key"`
		} `json:"consensus_pubkey"`
		Tokens string `json:"tokens"`
		Status string `json:"status"`
	} `json:"validators"`
}

// GenutilGenesisState represents the genutil module's genesis state
type GenutilGenesisState struct {
	GenTxs []json.RawMessage `json:"gen_txs"`
}

// GenTx represents a genesis transaction
type GenTx struct {
	Body struct {
		Messages []json.RawMessage `json:"messages"`
	} `json:"body"`
}

// MsgCreateValidator represents the create validator message
type MsgCreateValidator struct {
	Type   string `json:"@type"`
	Pubkey struct {
		Type string `json:"@type"`
		Key  string `json:"key"`
	} `json:"pubkey"`
}

// InitChainer loads the account and bank genesis and returns the initial
// validator set
func (app *App) InitChainer(ctx sdk.Context, req *abci.RequestInitChain) (*abci.ResponseInitChain, error) {
	var genesisState map[string]json.RawMessage
	if err := json.Unmarshal(req.AppStateBytes, &genesisState); err != nil {
		return nil, err
	}

	if raw, ok := genesisState[authtypes.ModuleName]; ok {
		var authGen authtypes.GenesisState
		if err := app.appCodec.UnmarshalJSON(raw, &authGen); err != nil {
			return nil, err
		}
		app.AccountKeeper.InitGenesis(ctx, authGen)
	}

	if raw, ok := genesisState[banktypes.ModuleName]; ok {
		var bankGen banktypes.GenesisState
		if err := app.appCodec.UnmarshalJSON(raw, &bankGen); err != nil {
			return nil, err
		}
		app.BankKeeper.InitGenesis(ctx, &bankGen)
	}

	if len(req.Validators) > 0 {
		return &abci.ResponseInitChain{Validators: req.Validators}, nil
	}

	validators := validatorsFromStaking(genesisState["staking"])
	if len(validators) == 0 {
		validators = validatorsFromGenTxs(genesisState["genutil"])
	}

	app.Logger().Info("custody chain initialized", "chain_id", req.ChainId, "validators", len(validators))

	return &abci.ResponseInitChain{Validators: validators}, nil
}

// validatorsFromStaking reads the bonded validators of a staking genesis
func validatorsFromStaking(raw json.RawMessage) []abci.ValidatorUpdate {
	if len(raw) == 0 {
		return nil
	}
	var stakingState StakingGenesisState
	if err := json.Unmarshal(raw, &stakingState); err != nil {
		return nil
	}

	var validators []abci.ValidatorUpdate
	for _, val := range stakingState.Validators {
		if val.Status != "BOND_STATUS_BONDED" {
			continue
		}
		if update, ok := ed25519Update(val.ConsensusPubkey.Key); ok {
			validators = append(validators, update)
		}
	}
	return validators
}

// validatorsFromGenTxs reads the MsgCreateValidator pubkeys of the gentxs
func validatorsFromGenTxs(raw json.RawMessage) []abci.ValidatorUpdate {
	if len(raw) == 0 {
		return nil
	}
	var genutilState GenutilGenesisState
	if err := json.Unmarshal(raw, &genutilState); err != nil {
		return nil
	}

	var validators []abci.ValidatorUpdate
	for _, genTxRaw := range genutilState.GenTxs {
		var genTx GenTx
		if err := json.Unmarshal(genTxRaw, &genTx); err != nil {
			continue
		}
		for _, msgRaw := range genTx.Body.Messages {
			var msg MsgCreateValidator
			if err := json.Unmarshal(msgRaw, &msg); err != nil {
				continue
			}
			if msg.Type != "/cosmos.staking.v1beta1.MsgCreateValidator" {
				continue
			}
			if update, ok := ed25519Update(msg.Pubkey.Key); ok {
				validators = append(validators, update)
			}
		}
	}
	return validators
}

func ed25519Update(key string) (abci.ValidatorUpdate, bool) {
	pubKeyBytes, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return abci.ValidatorUpdate{}, false
	}
	return abci.ValidatorUpdate{
		PubKey: cmtcrypto.PublicKey{
			Sum: &cmtcrypto.PublicKey_Ed25519{Ed25519: pubKeyBytes},
		},
		Power: genesisValidatorPower,
	}, true
}
