package collector

import (
	"github.com/prometheus/client_golang/prometheus"
)

// namespace prefixes every exported metric name.
const namespace = "teslafi"

// fieldOutsideTemp is the completeness sentinel: the feed omits it (null) when
// the vehicle is asleep and live sensor data is unavailable.
const fieldOutsideTemp = "outside_temp"

// commandLastGoodTemp selects the feed view guaranteed to include the last
// known temperature-dependent fields.
const commandLastGoodTemp = "lastGoodTemp"

// kind enumerates the metric shapes in the catalog.
type kind int

const (
	kindInfo kind = iota
	kindCounter
	kindGauge
	kindStateSet
)

// series is one observation of a metric family: the source field plus the
// sub-label value for multi-instance families (doors, windows, seat heaters,
// state counters). label is empty for single-series families.
type series struct {
	label string
	field string
}

// descriptor statically defines one output metric family: its name, shape,
// source field(s), unit conversion and default policy. The catalog of
// descriptors is built once and never mutated afterwards.
type descriptor struct {
	name string
	help string
	kind kind

	// counter / gauge
	subLabel string  // extra label name for multi-series families
	series   []series // one entry (empty label) for single-series families
	scale    float64 // unit conversion factor applied to parsed values, 0 means 1
	boolish  bool    // parse "True"/"False"/"1"/"0" into 1/0 instead of ParseFloat
	def      *float64 // value when the field resolves nowhere; nil makes that fatal

	// state set
	stateField string   // source field
	states     []string // fixed enumeration of expected values
	invalid    []string // raw values treated as absent (e.g. "<invalid>")
	emptyAs    string   // value substituted when the field resolves nowhere

	// info
	attrs []string // attribute fields bundled as labels on a constant 1

	desc *prometheus.Desc
}

// identityLabels are carried by every counter, gauge and state-set family.
var identityLabels = []string{"vin", "display_name"}

// build constructs the prometheus descriptor matching the entry's shape.
func (d *descriptor) build() {
	switch d.kind {
	case kindInfo:
		d.desc = prometheus.NewDesc(d.name, d.help, d.attrs, nil)
	case kindStateSet:
		// State sets follow the OpenMetrics convention: one 0/1 series per
		// state, the state name carried in a label named after the metric.
		labels := append(append([]string{}, identityLabels...), d.name)
		d.desc = prometheus.NewDesc(d.name, d.help, labels, nil)
	default:
		labels := append([]string{}, identityLabels...)
		if d.subLabel != "" {
			labels = append(labels, d.subLabel)
		}
		d.desc = prometheus.NewDesc(d.name, d.help, labels, nil)
	}
}

// valueType maps the descriptor kind onto the prometheus value type.
func (d *descriptor) valueType() prometheus.ValueType {
	if d.kind == kindCounter {
		return prometheus.CounterValue
	}
	return prometheus.GaugeValue
}

const (
	// milesToMeters converts feed distance fields (miles) to meters.
	milesToMeters = 1609.344
	// mphToKmh converts feed speed/rate fields (mph) to km/h.
	mphToKmh = 1.609344
)

func f64(v float64) *float64 { return &v }

// defaultZero and defaultUnknown are the two default policies the feed's own
// inconsistency forces on us: speed is plain 0 when the car is parked, while a
// handful of boolean-ish fields report -1 ("unknown") when the feed leaves
// them empty outside a charging session. Fields without a default fail the
// scrape when unresolvable, so upstream schema drift surfaces immediately.
var (
	defaultZero    = f64(0)
	defaultUnknown = f64(-1)
)

func gauge(name, help, field string) descriptor {
	return descriptor{
		name:   namespace + "_" + name,
		help:   help,
		kind:   kindGauge,
		series: []series{{field: field}},
	}
}

func stateSet(name, help, field string, states ...string) descriptor {
	return descriptor{
		name:       namespace + "_" + name,
		help:       help,
		kind:       kindStateSet,
		stateField: field,
		states:     states,
		emptyAs:    "None",
	}
}

// newCatalog returns the full metric catalog. chargeTimeScale is the
// seconds-per-unit factor for the time_to_full_charge field, which has
// shifted between minutes and hours across upstream schema revisions.
func newCatalog(chargeTimeScale float64) []descriptor {
	cat := []descriptor{
		{
			name: namespace + "_info",
			help: "TeslaFi car info (almost never changing)",
			kind: kindInfo,
			attrs: []string{
				"vin", "display_name", "vehicle_id", "option_codes",
				"exterior_color", "roof_color", "measure", "eu_vehicle",
				"rhd", "motorized_charge_port", "spoiler_type",
				"third_row_seats", "car_type", "rear_seat_heaters",
			},
		},
		{
			name: namespace + "_status_info",
			help: "TeslaFi car info (rarely changing)",
			kind: kindInfo,
			attrs: []string{
				"vin", "display_name", "vehicle_name", "car_version",
				"newVersion", "wheel_type", "api_version",
			},
		},
		{
			name:   namespace + "_data_id",
			help:   "TeslaFi ID of the data record",
			kind:   kindCounter,
			series: []series{{field: "data_id"}},
		},
		{
			name:   namespace + "_odometer_meter",
			help:   "Odometer in meters",
			kind:   kindCounter,
			series: []series{{field: "odometer"}},
			scale:  milesToMeters,
		},

		boolGauge("polling", "TeslaFi polling (0=false, 1=true)", "polling"),
		gauge("outside_temperature", "Outside temperature in °C", "outside_temp"),
		gauge("inside_temperature", "Inside temperature in °C", "inside_temp"),
		gauge("driver_set_temperature", "Driver set temperature in °C", "driver_temp_setting"),
		gauge("passenger_set_temperature", "Passenger set temperature in °C", "passenger_temp_setting"),
		gauge("fan_status", "HVAC fan status", "fan_status"),
		gauge("battery_level", "Battery level in % SOC", "battery_level"),
		gauge("usable_battery_level", "Usable battery level in % SOC (partially locked e.g. because of battery temperature)", "usable_battery_level"),
		withScale(gauge("battery_range_meter", "Rated range in meter", "battery_range"), milesToMeters),
		withScale(gauge("battery_range_ideal_meter", "Ideal range in meter", "ideal_battery_range"), milesToMeters),
		withScale(gauge("battery_range_est_meter", "Estimated range in meter", "est_battery_range"), milesToMeters),
		withScale(gauge("maxRange_meter", "Maximum range in meter", "maxRange"), milesToMeters),
		gauge("charge_limit_soc", "Charge limit in % SOC", "charge_limit_soc"),
		gauge("gps_as_of", "GPS timestamp", "gps_as_of"),
		gauge("heading", "Heading (in degree)", "heading"),
		gauge("longitude", "Longitude (in degree)", "longitude"),
		gauge("latitude", "Latitude (in degree)", "latitude"),
		gauge("idleTime", "Idle time in minutes", "idleTime"),
		{
			name:     namespace + "_number",
			help:     "Number of state monitored by TeslaFi",
			kind:     kindGauge,
			subLabel: "state",
			series: []series{
				{label: "idle", field: "idleNumber"},
				{label: "sleep", field: "sleepNumber"},
				{label: "drive", field: "driveNumber"},
				{label: "charge", field: "chargeNumber"},
			},
		},
		gauge("sentry_mode", "Sentry mode (0=off, 1=on)", "sentry_mode"),
		gauge("locked", "Locked (0=unlocked, 1=locked)", "locked"),
		gauge("is_user_present", "User present (0=no, 1=yes)", "is_user_present"),
		gauge("in_service", "Car in service (0=no, 1=yes)", "in_service"),
		gauge("center_display_state", "Center display state (0=off)", "center_display_state"),
		{
			name:     namespace + "_door_open",
			help:     "Door state (0=closed, 1=open)",
			kind:     kindGauge,
			subLabel: "location",
			series: []series{
				{label: "front driver", field: "df"},
				{label: "rear driver", field: "dr"},
				{label: "front passenger", field: "pf"},
				{label: "rear passenger", field: "pr"},
				{label: "front trunk", field: "ft"},
				{label: "rear trunk", field: "rt"},
			},
		},
		{
			name:     namespace + "_window_open",
			help:     "Window state (0=closed, 1=open)",
			kind:     kindGauge,
			subLabel: "location",
			series: []series{
				{label: "front driver", field: "fd_window"},
				{label: "rear driver", field: "rd_window"},
				{label: "front passenger", field: "fp_window"},
				{label: "rear passenger", field: "rp_window"},
			},
		},
		{
			name:     namespace + "_seat_heater",
			help:     "Seat heater level (0=off)",
			kind:     kindGauge,
			subLabel: "location",
			series: []series{
				{label: "front driver", field: "seat_heater_left"},
				{label: "rear driver", field: "seat_heater_rear_left"},
				{label: "front passenger", field: "seat_heater_right"},
				{label: "rear passenger", field: "seat_heater_rear_right"},
				{label: "rear center", field: "seat_heater_rear_center"},
			},
		},
		gauge("battery_heater_on", "Battery heater (0=off, 1=on)", "battery_heater_on"),
		gauge("is_front_defroster_on", "Front defroster (0=off, 1=on)", "is_front_defroster_on"),
		gauge("is_rear_defroster_on", "Rear defroster (0=off, 1=on)", "is_rear_defroster_on"),
		withDefault(gauge("defrost_mode", "Defrost mode (0=off, -1=unknown)", "defrost_mode"), defaultUnknown),
		gauge("is_preconditioning", "Preconditioning (0=off, 1=on)", "is_preconditioning"),
		gauge("is_auto_conditioning_on", "Auto conditioning (0=off, 1=on)", "is_auto_conditioning_on"),
		gauge("is_climate_on", "Climate on (0=off, 1=on)", "is_climate_on"),
		gauge("left_temp_direction", "Left temp direction", "left_temp_direction"),
		gauge("right_temp_direction", "Right temp direction", "right_temp_direction"),
		withDefault(gauge("charge_port_cold_weather_mode", "Charge port cold weather mode (0=off, 1=on, -1=unknown)", "charge_port_cold_weather_mode"), defaultUnknown),
		gauge("charge_port_door_open", "Charge port door open (0=closed, 1=open)", "charge_port_door_open"),
		withScale(gauge("time_to_full_charge_seconds", "Estimated time to full charge in seconds (granularity about 15 minutes)", "time_to_full_charge"), chargeTimeScale),
		gauge("charge_current_request_ampere", "Requested charge current in Ampere (per phase)", "charge_current_request"),
		gauge("charge_enable_request", "Charging enabled (if possible)", "charge_enable_request"),
		gauge("charger_power_kw", "Charge power in kW", "charger_power"),
		gauge("charger_pilot_current_ampere", "Max current allowed by charger in Ampere per phase", "charger_pilot_current"),
		gauge("charger_actual_current_ampere", "Actual charge current in Ampere per phase", "charger_actual_current"),
		gauge("charge_current_request_max_ampere", "Charge current request max in Ampere", "charge_current_request_max"),
		gauge("charge_energy_added_kwh", "Energy charged since start of current/last charge session in kWh", "charge_energy_added"),
		withScale(gauge("charge_range_ideal_added_meter", "Ideal range added since start of current/last charge session in meter", "charge_miles_added_ideal"), milesToMeters),
		withScale(gauge("charge_range_rated_added_meter", "Rated range added since start of current/last charge session in meter", "charge_miles_added_rated"), milesToMeters),
		withScale(gauge("charge_rate", "Charge rate in km/h", "charge_rate"), mphToKmh),
		gauge("charger_voltage", "Charger voltage in Volt", "charger_voltage"),
		withDefault(gauge("fast_charger_present", "Fast charger present (0=none, 1=present, -1=unknown)", "fast_charger_present"), defaultUnknown),
		withDefault(gauge("trip_charging", "Trip charging (0=off, 1=on, -1=unknown)", "trip_charging"), defaultUnknown),
		withDefault(withScale(gauge("speed_kmh", "Speed in km/h", "speed"), mphToKmh), defaultZero),
		gauge("power_kw", "Current power use in kW, negative during regen", "power"),

		stateSet("carState", "Car state", "carState",
			"Sleeping", "Idling", "Driving", "Charging"),
		stateSet("shift_state", "Shift state", "shift_state",
			"None", "P", "D", "R", "N"),
		stateSet("charger_phases", "Charger phases", "charger_phases",
			"None", "1", "2", "3"),
		stateSet("api_state", "API state", "state",
			"online", "asleep", "offline"),
		withInvalid(stateSet("fast_charger_type", "Fast charger type", "fast_charger_type",
			"None", "Tesla", "Combo", "CHAdeMO"), "<invalid>"),
		stateSet("charge_port_led_color", "Charge port LED color", "charge_port_led_color",
			"None", "Off", "Green", "Blue", "Red"),
		stateSet("charge_port_latch", "Charge port latch status", "charge_port_latch",
			"Engaged", "Disengaged"),
		stateSet("charging_state", "Charging state", "charging_state",
			"Disconnected", "Charging", "Stopped", "Complete", "Starting", "NoPower"),
		stateSet("climate_keeper_mode", "Climate keeper mode", "climate_keeper_mode",
			"off", "on", "dog", "camp"),
		stateSet("conn_charge_cable", "Connected charge cable type", "conn_charge_cable",
			"None", "SAE", "IEC"),
		stateSet("fast_charger_brand", "Fast charger brand", "fast_charger_brand",
			"None", "Tesla"),
		stateSet("newVersionStatus", "Firmware rollout status", "newVersionStatus",
			"None", "available", "scheduled", "downloading", "installing"),
		stateSet("autopark_state", "Autopark state", "autopark_state",
			"None", "ready", "unavailable"),
		stateSet("rangeDisplay", "Range display mode", "rangeDisplay",
			"rated", "ideal"),
		// tagged location names are user-defined, so most values arrive via
		// the overflow path
		stateSet("location", "TeslaFi tagged location", "location",
			"None", "Home", "Work", "No Tagged Location Found"),
	}

	for i := range cat {
		cat[i].build()
	}
	return cat
}

func boolGauge(name, help, field string) descriptor {
	d := gauge(name, help, field)
	d.boolish = true
	return d
}

func withScale(d descriptor, scale float64) descriptor {
	d.scale = scale
	return d
}

func withDefault(d descriptor, def *float64) descriptor {
	d.def = def
	return d
}

func withInvalid(d descriptor, values ...string) descriptor {
	d.invalid = values
	return d
}
