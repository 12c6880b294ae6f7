// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"math"
	"net/http"

	"github.com/Thermoquad/mistral/pkg/midea/ac"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var exportListen string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Serve appliance telemetry as Prometheus metrics",
	Long: `Run the appliance session headless and expose its telemetry on a
Prometheus /metrics endpoint: temperatures, humidity, fan speed, power
state, power usage and error code.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportListen, "listen", ":9774", "Metrics listen address")
	rootCmd.AddCommand(exportCmd)
}

const metricsNamespace = "mistral"

type acMetrics struct {
	indoorTemp  prometheus.Gauge
	outdoorTemp prometheus.Gauge
	targetTemp  prometheus.Gauge
	humidity    prometheus.Gauge
	fanSpeed    prometheus.Gauge
	powerOn     prometheus.Gauge
	powerUsage  prometheus.Gauge
	errorCode   prometheus.Gauge
}

func newACMetrics() *acMetrics {
	gauge := func(name, help string) prometheus.Gauge {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      name,
			Help:      help,
		})
		prometheus.MustRegister(g)
		return g
	}
	return &acMetrics{
		indoorTemp:  gauge("indoor_temperature_celsius", "Indoor temperature"),
		outdoorTemp: gauge("outdoor_temperature_celsius", "Outdoor unit temperature"),
		targetTemp:  gauge("target_temperature_celsius", "Target temperature setpoint"),
		humidity:    gauge("indoor_humidity_percent", "Indoor relative humidity"),
		fanSpeed:    gauge("fan_speed_percent", "Fan speed (102 = auto)"),
		powerOn:     gauge("power_on", "1 while the appliance is running"),
		powerUsage:  gauge("power_usage_watts", "Real-time power consumption"),
		errorCode:   gauge("error_code", "Appliance error code (0 = none)"),
	}
}

func (m *acMetrics) update(s *ac.DeviceStatus) {
	if !math.IsNaN(s.Readable.IndoorTemp) {
		m.indoorTemp.Set(s.Readable.IndoorTemp)
	}
	if !math.IsNaN(s.Readable.OutdoorTemp) {
		m.outdoorTemp.Set(s.Readable.OutdoorTemp)
	}
	m.targetTemp.Set(s.Control.TargetTempC())
	m.humidity.Set(float64(s.Readable.IndoorHumidity))
	m.fanSpeed.Set(float64(s.Control.FanSpeed))
	if s.Control.Power {
		m.powerOn.Set(1)
	} else {
		m.powerOn.Set(0)
	}
	m.powerUsage.Set(s.Readable.PowerUsage)
	m.errorCode.Set(float64(s.Readable.ErrorCode))
}

func runExport(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	metrics := newACMetrics()

	sess := newSession(conn)
	sess.do(func(a *ac.AirConditioner) {
		a.OnStateChange(func(s *ac.DeviceStatus) { metrics.update(s) })
		a.SetAutoconf(true)
	})
	go sess.run()
	defer sess.stop()

	fmt.Printf("Mistral - Telemetry Exporter\n")
	fmt.Printf("%s\n", connInfo)
	fmt.Printf("Serving metrics on %s/metrics\n", exportListen)

	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(exportListen, nil)
}
