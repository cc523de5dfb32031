package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"tick_bot/internal/helper"
	"tick_bot/internal/models"
	"tick_bot/internal/modules/config"
	enginesvc "tick_bot/internal/modules/engine/service"
	maintainersvc "tick_bot/internal/modules/maintainer/service"
	"tick_bot/internal/notify"
	"tick_bot/internal/strategy"
	"tick_bot/pkg/logger"
)

// replayTick — строка входного JSONL.
type replayTick struct {
	Token string  `json:"token"`
	Price float64 `json:"price"`
	Ts    int64   `json:"ts"`
}

// printOrders считает "ордера" вместо похода на биржу.
type printOrders struct {
	seq int
}

func (p *printOrders) PlaceOrder(_ context.Context, reg models.Registration, sig models.Signal) (string, error) {
	p.seq++
	id := fmt.Sprintf("replay-%d", p.seq)
	fmt.Printf("%s %s %s -> %s\n", sig, reg.Symbol, reg.TF, id)
	return id, nil
}

func main() {
	viper.SetConfigName(".replay")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetDefault("token", "3045")
	viper.SetDefault("symbol", "SBIN-EQ")
	viper.SetDefault("tf", "1m")
	viper.SetDefault("strategy", "supertrend")
	viper.SetDefault("min_history", 0)
	viper.SetDefault("zone", "Asia/Kolkata")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	ticksPath := viper.GetString("ticks")
	if len(os.Args) > 1 {
		ticksPath = os.Args[1]
	}
	if ticksPath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay <ticks.jsonl>")
		os.Exit(2)
	}

	if err := run(ticksPath); err != nil {
		panic(err)
	}
}

func run(path string) error {
	if err := logger.Init("info", "replay"); err != nil {
		return errors.Wrap(err, "init logger")
	}

	tf, err := helper.ParseTF(viper.GetString("tf"))
	if err != nil {
		return errors.Wrap(err, "parse tf")
	}

	params := models.StrategyParams{}
	for k, v := range viper.GetStringMap("params") {
		switch x := v.(type) {
		case float64:
			params[k] = x
		case int:
			params[k] = float64(x)
		}
	}

	cfg := &config.Config{
		ExchangeZone:      viper.GetString("zone"),
		EngineQueueSize:   1024,
		DispatchShards:    1, // один шард: детерминированный порядок сигналов
		DispatchQueueSize: 256,
		PlaceOrders:       true,
	}

	n := notify.NewStdout()
	eng := enginesvc.NewEngine(cfg.Location(), cfg.EngineQueueSize)
	m := maintainersvc.NewMaintainer(cfg, eng, nil, n)

	orders := &printOrders{}
	sink := maintainersvc.NewSink(cfg, orders, nil, n)
	d := maintainersvc.NewDispatcher(m, strategy.NewFactory(), sink, cfg.DispatchShards, cfg.DispatchQueueSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		d.Run(ctx, eng.Events())
		close(done)
	}()

	reg := models.Registration{
		Token:      viper.GetString("token"),
		Symbol:     viper.GetString("symbol"),
		Exchange:   "NSE",
		TF:         tf,
		StrategyID: viper.GetString("strategy"),
		Params:     params,
		MinHistory: viper.GetInt("min_history"),
	}
	if err := m.Add(ctx, reg); err != nil {
		return errors.Wrap(err, "add registration")
	}

	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open ticks file")
	}
	defer func() {
		_ = file.Close()
	}()

	var ticks, bad int
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rt replayTick
		if err := sonic.Unmarshal(line, &rt); err != nil {
			bad++
			continue
		}

		eng.Ingest(models.Tick{
			Token: rt.Token,
			Price: rt.Price,
			Ts:    time.Unix(rt.Ts, 0),
		})
		ticks++
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "scan ticks file")
	}

	// дожидаемся, пока диспетчер разгребёт очередь
	for len(eng.Events()) > 0 {
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	fmt.Printf("done: ticks=%d bad=%d orders=%d\n", ticks, bad, orders.seq)
	return nil
}
