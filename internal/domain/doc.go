// Package domain models daily snow water equivalent (SWE) estimates for a
// hydrological zone and the similarity statistics computed between them.
//
// # Data Source
//
// Each zone (a CBRFC forecast sub-basin, e.g. "DRGC2HUF") has one merged daily
// table. Every row carries the date and one SWE value per dataset. The datasets
// are produced independently:
//
//	Snow-17     CBRFC operational model, forecast segments ("_F" suffix)
//	iSnobal     physically based energy balance model
//	SNODAS      NOAA NOHRSC assimilation product
//	UArizona    University of Arizona gridded SWE
//	CU Boulder  CU Boulder reconstruction
//	ASO         Airborne Snow Observatory flights (sparse)
//
// Values are non-negative depths in millimetres. The upstream loader aligns the
// datasets on date (inner join) before the table reaches this package, so all
// present columns share one date index. Nothing here fills gaps or converts
// units on input.
//
// # Water Years
//
// A water year runs Oct 1 through Sep 30 and is labelled by the calendar year
// in which it ends:
//
//	WY2022 = [2021-10-01, 2022-10-01)
//
// Dates are compared in UTC.
//
// # Similarity Metrics
//
// For an ordered pair (A, B) of datasets, both series are treated as
// un-normalised densities over day index 0..n-1 and integrated with Simpson's
// rule:
//
//	overlapping   ∫ min(A/|A|, B/|B|)      1.0 = identical shape
//	timing_shift  centroid(A) - centroid(B) days, positive when A's mass sits later
//	magnitude     |B| / |A|                 1.0 = equal totals
//	net           |B| - |A|                 truncated to a whole unit
//	rmse          sqrt(mean((B - A)²))      raw values, not normalised
//
// net and rmse are reported in the configured output [Unit] (inches by
// default). All other values are rounded to two decimals.
package domain
