package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jt828/docstore-tracing/internal/bootstrap"
	"github.com/jt828/docstore-tracing/pkg/docstore"
	"github.com/jt828/docstore-tracing/pkg/logging"
	loggingImpl "github.com/jt828/docstore-tracing/pkg/logging/implementation"
	"github.com/jt828/docstore-tracing/pkg/metrics"
	metricsImpl "github.com/jt828/docstore-tracing/pkg/metrics/implementation"
	"github.com/jt828/docstore-tracing/pkg/tracing"
	"github.com/jt828/docstore-tracing/pkg/tracing/implementation"
	"github.com/shopspring/decimal"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log, err := loggingImpl.NewZapLogger()
	if err != nil {
		panic(err)
	}

	endpoint := os.Getenv("OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:4317"
	}
	tracer, shutdown, err := implementation.NewProvider(ctx, "docstore-demo", endpoint)
	if err != nil {
		log.Error("failed to initialize tracer provider", logging.Err(err))
		os.Exit(1)
	}
	defer func() { _ = shutdown(context.Background()) }()

	meter := metricsImpl.NewPrometheusMeter()
	opMeter := metrics.NewOperationMeter(meter)
	srv := metricsImpl.StartMetricsServer(":9090", metricsImpl.PromRegistry(meter))
	defer func() { _ = srv.Shutdown(context.Background()) }()

	client, err := bootstrap.ClientIdentity("demo.docstore.local", docstore.ConnectionModeDirect)
	if err != nil {
		log.Error("failed to build client identity", logging.Err(err))
		os.Exit(1)
	}
	registry := tracing.DefaultErrorRegistry()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutting down")
		cancel()
	}()

	runOperation := func(req tracing.OperationRequest, out tracing.ResponseOutcome, opErr error) {
		started := time.Now()
		scope := implementation.NewScope(ctx, tracer, req.OperationName, client.Mode)
		rec := tracing.NewRecorder(scope, req, client, registry, tracing.WithLogger(log))
		defer rec.End()

		if opErr != nil {
			rec.MarkFailed(opErr)
			return
		}
		rec.RecordResponse(out)
		opMeter.RecordOperation(req.OperationName, out.StatusCode,
			out.RequestCharge.InexactFloat64(), time.Since(started))
	}

	runOperation(
		tracing.OperationRequest{
			OperationName: "ReadItemAsync",
			DatabaseName:  "orders",
			ContainerName: "items",
			OperationType: docstore.OperationRead,
		},
		tracing.ResponseOutcome{
			StatusCode:            200,
			ResponseContentLength: 512,
			ItemCount:             1,
			RequestCharge:         decimal.NewFromFloat(2.33),
			ActivityID:            uuid.NewString(),
			Diagnostics:           &docstore.Diagnostics{Regions: []string{"westeurope"}},
		},
		nil,
	)

	runOperation(
		tracing.OperationRequest{
			OperationName: "ReadItemAsync",
			DatabaseName:  "orders",
			ContainerName: "items",
			OperationType: docstore.OperationRead,
		},
		tracing.ResponseOutcome{
			StatusCode:    404,
			RequestCharge: decimal.NewFromFloat(1),
			ActivityID:    uuid.NewString(),
		},
		nil,
	)

	runOperation(
		tracing.OperationRequest{
			OperationName: "CreateItemAsync",
			DatabaseName:  "orders",
			ContainerName: "items",
			OperationType: docstore.OperationCreate,
		},
		tracing.ResponseOutcome{},
		&docstore.StatusError{Code: 429, SubStatus: 3200, ActivityID: uuid.NewString(), Message: "request rate too large"},
	)

	log.Info("demo operations recorded, serving metrics on :9090 until interrupted")
	<-ctx.Done()
}
