// Package domain models wildfire monitoring data: unified sensor readings,
// rule-based threat detection, and the alerts derived from them.
//
// # Unified Reading Schema
//
// Every data source — demo camera frames, satellite thermal CSVs, IoT sensor
// logs, NASA FIRMS hotspots, NIFC perimeters, IRWIN incidents — is flattened
// into the same shape:
//
//	{source, timestamp, lat, lon, data: {...source-specific fields}}
//
// Readings are created once per pipeline cycle and treated as read-only from
// then on. The data map carries source-specific fields (thermal index,
// temperature, humidity, FRP, brightness temperature, acres, and so on).
//
// # FIRMS Data Conventions
//
// NASA FIRMS (Fire Information for Resource Management System) serves active
// fire detections from the MODIS and VIIRS instruments. Fields seen in the
// area API CSV output:
//
//	Acquisition time:
//	  acq_date ("2024-08-14") plus acq_time, which is "HHMM" for MODIS
//	  ("1510" = 15:10 UTC) and "HH:MM" for VIIRS. Both combine into a full
//	  UTC timestamp; a malformed time falls back to midnight of acq_date.
//
//	Confidence:
//	  MODIS reports an integer 0-100. VIIRS reports the categorical values
//	  "low", "nominal", "high". Both forms are preserved verbatim in the
//	  reading data map.
//
//	FRP (Fire Radiative Power):
//	  Megawatts, a proxy for fire intensity. bright_ti4/bright_ti5 are VIIRS
//	  I-band brightness temperatures in kelvin; MODIS reports "brightness".
//
//	daynight:
//	  "D" or "N" for day/night overpass, "U" when unknown.
//
// # Detection Thresholds
//
// Threat detection is rule-based. The basic rule pairs a satellite reading
// whose thermal index is at least 50 with any sensor reading within five
// minutes whose temperature is at least 35 °C; severity is high at 50 °C and
// medium below. The comprehensive path adds per-source rules (sensor CO2
// above 1000 ppm, humidity under 20 %, smoke flag) and correlates detections
// that land in the same ~1 km grid cell (0.01°), boosting confidence when
// independent detection types agree.
//
// # Alert ID Generation
//
// Alert IDs are deterministic SHA-256 hashes of type|lat|lon|time, so a
// replayed pipeline cycle over identical input produces identical IDs. This
// keeps downstream storage upserts and Kafka keying idempotent. See
// [generateID].
package domain
