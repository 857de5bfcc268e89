package app

import (
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/grpc/cmtservice"
	nodeservice "github.com/cosmos/cosmos-sdk/client/grpc/node"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/server/api"
	serverconfig "github.com/cosmos/cosmos-sdk/server/config"
	servertypes "github.com/cosmos/cosmos-sdk/server/types"
	authtx "github.com/cosmos/cosmos-sdk/x/auth/tx"
	gogogrpc "github.com/cosmos/gogoproto/grpc"

	"github.com/openalpha/custody/metrics"
)

var _ servertypes.Application = (*App)(nil)

func (app *App) Config() CustodyConfig { return app.config }
func (app *App) AppCodec() codec.Codec { return app.appCodec }

// LoadHeight loads the store at the given height
func (app *App) LoadHeight(height int64) error {
	return app.LoadVersion(height)
}

// RegisterAPIRoutes mounts the gateway routes of the SDK modules and, when
// enabled, the custody metrics handler
func (app *App) RegisterAPIRoutes(apiSvr *api.Server, _ serverconfig.APIConfig) {
	clientCtx := apiSvr.ClientCtx
	authtx.RegisterGRPCGatewayRoutes(clientCtx, apiSvr.GRPCGatewayRouter)
	cmtservice.RegisterGRPCGatewayRoutes(clientCtx, apiSvr.GRPCGatewayRouter)
	nodeservice.RegisterGRPCGatewayRoutes(clientCtx, apiSvr.GRPCGatewayRouter)
	app.BasicModuleManager.RegisterGRPCGatewayRoutes(clientCtx, apiSvr.GRPCGatewayRouter)

	if app.config.MetricsEnabled {
		apiSvr.Router.Handle("/custody/metrics", metrics.Handler())
	}
}

func (app *App) RegisterTxService(clientCtx client.Context) {
	authtx.RegisterTxService(app.GRPCQueryRouter(), clientCtx, app.Simulate, app.interfaceRegistry)
}

func (app *App) RegisterTendermintService(clientCtx client.Context) {
	cmtservice.RegisterTendermintService(clientCtx, app.GRPCQueryRouter(), app.interfaceRegistry, app.Query)
}

func (app *App) RegisterNodeService(clientCtx client.Context, cfg serverconfig.Config) {
	nodeservice.RegisterNodeService(clientCtx, app.GRPCQueryRouter(), cfg)
}

// RegisterGRPCServer is a no-op: the custody modules expose no gRPC services
// and the SDK query services are served through the GRPCQueryRouter.
func (app *App) RegisterGRPCServer(gogogrpc.Server) {}
