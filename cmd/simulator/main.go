package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/config"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/database"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/observability"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/repository"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	observability.SetupLogger(config.LogLevel(), config.LogFormat())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fleet, err := newFleet(config.SimulatorCustomer(), config.SimulatorFacilities(), config.SimulatorUnits())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid simulator fleet")
	}

	db, err := database.Connect(config.DBDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}
	if err := seed(ctx, repository.New(db), fleet); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	db.Close()

	opts := mqtt.NewClientOptions().
		AddBroker(config.MQTTBroker()).
		SetClientID(fmt.Sprintf("coldchain-simulator-%s", fleet.customerCode))
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ticker := time.NewTicker(config.SimulatorInterval())
	defer ticker.Stop()

	topic := config.MQTTTopic()
	log.Info().
		Str("customer", fleet.customerCode).
		Int("units", len(fleet.units)).
		Str("topic", topic).
		Msg("simulation running; Ctrl+C to stop")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("simulation done")
			return
		case now := <-ticker.C:
			for _, u := range fleet.units {
				payload, err := json.Marshal(u.next(rng, now.UTC(), config.SimulatorFailureRate()))
				if err != nil {
					log.Error().Err(err).Msg("marshal reading")
					continue
				}
				if token := client.Publish(topic, 1, false, payload); token.Wait() && token.Error() != nil {
					log.Error().Err(token.Error()).Str("unit", u.unitCode).Msg("publish failed")
				}
			}
		}
	}
}

// seed creates the fleet's customer, facilities and units when missing so
// the ingestor can resolve the codes the simulator publishes.
func seed(ctx context.Context, repos *repository.Repos, f *fleet) error {
	customer, err := repos.GetCustomerByCode(ctx, f.customerCode)
	if errors.Is(err, domain.ErrNotFound) {
		if customer, err = domain.NewCustomer(f.customerCode, "Simulated customer "+f.customerCode); err != nil {
			return err
		}
		err = repos.InsertCustomer(ctx, customer)
	}
	if err != nil {
		return err
	}

	for _, fc := range f.facilityCodes() {
		facility, err := repos.GetFacilityByCode(ctx, customer.ID, fc)
		if errors.Is(err, domain.ErrNotFound) {
			if facility, err = domain.NewFacility(domain.FacilityParams{CustomerID: customer.ID, FacilityCode: fc}); err != nil {
				return err
			}
			err = repos.InsertFacility(ctx, facility)
		}
		if err != nil {
			return err
		}

		for _, u := range f.unitsOf(fc) {
			_, err := repos.GetStorageUnitByCode(ctx, facility.ID, u.unitCode)
			if !errors.Is(err, domain.ErrNotFound) {
				if err != nil {
					return err
				}
				continue
			}
			target := u.target
			unit, err := domain.NewStorageUnit(domain.StorageUnitParams{
				FacilityID:      facility.ID,
				UnitCode:        u.unitCode,
				SizeValue:       u.sizeSqm,
				SizeUnit:        string(domain.SquareMeters),
				SetTemperature:  &target,
				TemperatureUnit: string(domain.Celsius),
			})
			if err != nil {
				return err
			}
			if err := repos.InsertStorageUnit(ctx, unit); err != nil {
				return err
			}
		}
	}
	log.Info().Str("customer", f.customerCode).Msg("fleet seeded")
	return nil
}
