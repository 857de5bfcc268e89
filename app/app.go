package app

import (
	"io"
	"os"
	"path/filepath"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/baseapp"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	servertypes "github.com/cosmos/cosmos-sdk/server/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/cosmos/cosmos-sdk/x/auth"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/cosmos/cosmos-sdk/x/bank"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/cosmos/cosmos-sdk/x/consensus"
	consensusparamkeeper "github.com/cosmos/cosmos-sdk/x/consensus/keeper"
	consensusparamtypes "github.com/cosmos/cosmos-sdk/x/consensus/types"
	"github.com/cosmos/cosmos-sdk/x/genutil"
	genutiltypes "github.com/cosmos/cosmos-sdk/x/genutil/types"
	"github.com/cosmos/cosmos-sdk/x/staking"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/openalpha/custody/metrics"
	"github.com/openalpha/custody/x/lending"
	lendingkeeper "github.com/openalpha/custody/x/lending/keeper"
	lendingtypes "github.com/openalpha/custody/x/lending/types"
	"github.com/openalpha/custody/x/stakepool"
	stakepoolkeeper "github.com/openalpha/custody/x/stakepool/keeper"
	stakepooltypes "github.com/openalpha/custody/x/stakepool/types"
	"github.com/openalpha/custody/x/vault"
	vaultkeeper "github.com/openalpha/custody/x/vault/keeper"
	vaulttypes "github.com/openalpha/custody/x/vault/types"
)

// Name is the application name and the first segment of every custody
// message type URL
const Name = "custody"

var (
	// DefaultNodeHome is ~/.custody
	DefaultNodeHome string

	// ModuleBasics registers codecs and genesis for the SDK and custody modules
	ModuleBasics = module.NewBasicManager(
		auth.AppModuleBasic{},
		bank.AppModuleBasic{},
		staking.AppModuleBasic{},
		genutil.NewAppModuleBasic(genutiltypes.DefaultMessageValidator),
		consensus.AppModuleBasic{},
		vault.AppModuleBasic{},
		stakepool.AppModuleBasic{},
		lending.AppModuleBasic{},
	)

	// module account permissions. The custody modules hold user funds but
	// never mint or burn.
	maccPerms = map[string][]string{
		authtypes.FeeCollectorName: nil,
		vaulttypes.ModuleName:      nil,
		stakepooltypes.ModuleName:  nil,
		lendingtypes.ModuleName:    nil,
	}
)

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	DefaultNodeHome = filepath.Join(userHomeDir, ".custody")
}

// custodyModule is the surface the app needs from each custody module
type custodyModule interface {
	module.AppModuleBasic
	RegisterInvariants(sdk.InvariantRegistry)
	Handler() func(sdk.Context, sdk.Msg) (*sdk.Result, error)
	EndBlocker(sdk.Context) error
}

// App is the custody chain: auth and bank for accounts and balances, plus
// the vault, stake pool and lending keepers
type App struct {
	*baseapp.BaseApp

	appCodec          codec.Codec
	interfaceRegistry codectypes.InterfaceRegistry
	config            CustodyConfig

	// SDK Keepers
	ConsensusParamsKeeper consensusparamkeeper.Keeper
	AccountKeeper         authkeeper.AccountKeeper
	BankKeeper            bankkeeper.BaseKeeper

	// Custody keepers
	VaultKeeper     *vaultkeeper.Keeper
	StakePoolKeeper *stakepoolkeeper.Keeper
	LendingKeeper   *lendingkeeper.Keeper

	// Custody modules in EndBlock order, with their message handlers and
	// invariants
	custodyModules []custodyModule
	msgHandlers    map[string]baseapp.MsgServiceHandler
	invariants     *invariantRegistry

	BasicModuleManager module.BasicManager
}

// NewApp wires the keepers, mounts the stores and, when loadLatest is set,
// loads the last committed version
func NewApp(
	logger log.Logger,
	db dbm.DB,
	traceStore io.Writer,
	loadLatest bool,
	appOpts servertypes.AppOptions,
	baseAppOptions ...func(*baseapp.BaseApp),
) *App {
	encodingConfig := MakeEncodingConfig()
	appCodec := encodingConfig.Codec
	interfaceRegistry := encodingConfig.InterfaceRegistry

	bApp := baseapp.NewBaseApp(Name, logger, db, encodingConfig.TxConfig.TxDecoder(), baseAppOptions...)
	bApp.SetCommitMultiStoreTracer(traceStore)
	bApp.SetInterfaceRegistry(interfaceRegistry)

	keys := storetypes.NewKVStoreKeys(
		authtypes.StoreKey,
		banktypes.StoreKey,
		consensusparamtypes.StoreKey,
		vaulttypes.StoreKey,
		stakepooltypes.StoreKey,
		lendingtypes.StoreKey,
	)

	app := &App{
		BaseApp:            bApp,
		appCodec:           appCodec,
		interfaceRegistry:  interfaceRegistry,
		config:             ReadCustodyConfig(appOpts),
		BasicModuleManager: ModuleBasics,
	}

	authority := authtypes.NewModuleAddress("gov").String()

	app.ConsensusParamsKeeper = consensusparamkeeper.NewKeeper(
		appCodec,
		runtime.NewKVStoreService(keys[consensusparamtypes.StoreKey]),
		authority,
		runtime.EventService{},
	)
	bApp.SetParamStore(app.ConsensusParamsKeeper.ParamsStore)

	addrCodec := address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix())

	app.AccountKeeper = authkeeper.NewAccountKeeper(
		appCodec,
		runtime.NewKVStoreService(keys[authtypes.StoreKey]),
		authtypes.ProtoBaseAccount,
		maccPerms,
		addrCodec,
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		authority,
	)

	app.BankKeeper = bankkeeper.NewBaseKeeper(
		appCodec,
		runtime.NewKVStoreService(keys[banktypes.StoreKey]),
		app.AccountKeeper,
		BlockedModuleAccountAddrs(maccPerms),
		authority,
		logger,
	)

	app.VaultKeeper = vaultkeeper.NewKeeper(keys[vaulttypes.StoreKey], app.BankKeeper, logger)
	app.StakePoolKeeper = stakepoolkeeper.NewKeeper(keys[stakepooltypes.StoreKey], app.BankKeeper, logger)
	app.LendingKeeper = lendingkeeper.NewKeeper(keys[lendingtypes.StoreKey], app.BankKeeper, logger)

	app.custodyModules = []custodyModule{
		vault.NewAppModule(app.VaultKeeper),
		stakepool.NewAppModule(app.StakePoolKeeper),
		lending.NewAppModule(app.LendingKeeper),
	}
	app.msgHandlers = make(map[string]baseapp.MsgServiceHandler, len(app.custodyModules))
	app.invariants = &invariantRegistry{}
	for _, m := range app.custodyModules {
		app.msgHandlers[m.Name()] = m.Handler()
		m.RegisterInvariants(app.invariants)
	}

	authtypes.RegisterQueryServer(bApp.GRPCQueryRouter(), authkeeper.NewQueryServer(app.AccountKeeper))
	banktypes.RegisterQueryServer(bApp.GRPCQueryRouter(), bankkeeper.NewQuerier(&app.BankKeeper))

	if app.config.MetricsEnabled {
		if err := metrics.GetCollector().Register(prometheus.DefaultRegisterer); err != nil {
			logger.Error("Failed to register custody metrics", "error", err)
		}
	}

	app.MountKVStores(keys)

	app.SetInitChainer(app.InitChainer)
	app.SetBeginBlocker(app.BeginBlocker)
	app.SetEndBlocker(app.EndBlocker)

	if loadLatest {
		if err := app.LoadLatestVersion(); err != nil {
			panic(err)
		}
	}

	return app
}

// BlockedModuleAccountAddrs returns the module accounts that may not receive
// plain bank sends. Custody module accounts are included: funds only enter
// them through their keepers, which keep pool balances in step.
func BlockedModuleAccountAddrs(maccPerms map[string][]string) map[string]bool {
	blockedAddrs := make(map[string]bool)
	for acc := range maccPerms {
		blockedAddrs[authtypes.NewModuleAddress(acc).String()] = true
	}
	return blockedAddrs
}
