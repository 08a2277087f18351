// README: Entry point; loads config, wires services, starts HTTP server and
// background workers.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/juju/clock"

	"samaha/internal/config"
	httptransport "samaha/internal/http"
	"samaha/internal/infra"
	"samaha/internal/modules/coupon"
	"samaha/internal/modules/dispatch"
	"samaha/internal/modules/driver"
	"samaha/internal/modules/order"
	"samaha/internal/modules/restaurant"
	"samaha/internal/modules/user"
	"samaha/internal/notify"
	"samaha/internal/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Firebase.ProjectID == "" {
		log.Fatal("SAMAHA_FIREBASE_PROJECT_ID is required")
	}
	fb, err := infra.NewFirebase(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatalf("firebase init: %v", err)
	}
	defer fb.Close()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	clk := clock.WallClock
	restaurantID := types.ID(cfg.Restaurant.ID)

	userStore := user.NewStore(fb.Firestore)
	settings := restaurant.NewSettings(restaurant.NewStore(fb.Firestore), restaurantID)

	queue := notify.NewQueue(notify.NewFCMSender(fb.Messaging), cfg.Notify.QueueSize)
	notifier := notify.NewNotifier(queue, userStore, userStore)

	eventLog := order.NewPostgresEventLog(dbPool)
	driverSvc := driver.NewService(driver.NewFirestoreStore(fb.Firestore, redisClient), clk)

	dispatchSvc := dispatch.NewService(
		driverSvc,
		dispatch.NewFirestoreAssigner(fb.Firestore),
		settings,
		notifier,
		eventLog,
		cfg.Dispatch.RadiusKm,
		clk,
	)

	orderSvc := order.NewService(order.Deps{
		Store:      order.NewFirestoreStore(fb.Firestore),
		Events:     eventLog,
		Notifier:   notifier,
		Drivers:    driverSvc,
		Dispatcher: dispatchSvc,
		Settings:   settings,
		Clock:      clk,
	})

	couponSvc := coupon.NewService(coupon.NewFirestoreStore(fb.Firestore), clk)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Order:        orderSvc,
		Events:       eventLog,
		Dispatch:     dispatchSvc,
		Driver:       driverSvc,
		Coupon:       couponSvc,
		Users:        userStore,
		Verifier:     fb,
		RestaurantID: restaurantID,
	})

	go queue.Run(ctx)
	go orderSvc.RunStaleSweeper(ctx, cfg.Sweeper.Interval, cfg.Sweeper.StaleThreshold)

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}
	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Printf("samaha-api listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
