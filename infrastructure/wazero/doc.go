// Package wazero exposes a hostfuncs.HandlerRegistry to plugins running in a
// wazero runtime.
//
// Every registry handler becomes an export of the pipeline_host module taking
// one packed i64 (request offset and length) and returning another (response
// offset and length). The response is written into memory obtained from the
// guest's allocate export. log_message is registered alongside and forwards
// plugin log records to the host logger.
//
//	registry, err := hostfuncs.NewPipelineRegistry(env, modules,
//	    hostfuncs.WithDefaultMiddleware(),
//	)
//	if err != nil {
//	    return err
//	}
//	err = wazero.RegisterWithRuntime(ctx, runtime, registry,
//	    wazero.WithLogger(logger),
//	)
package wazero
