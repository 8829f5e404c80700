/*
Package drillsim synthesizes drilling-sensor logs indexed by borehole depth and
exports them to tabular files.

Every table has a depth column followed by four channels: rate of penetration
(ROP), rotary speed (RPM), mud flow rate and weight on bit. Each channel is a
bounded random walk: the first value is drawn uniformly between the channel's
bounds and every following value moves by at most the channel's step delta,
clamped back into the bounds. The result is gradually varying, physically
plausible data for exercising plotting, ingestion and analysis pipelines.

# Usage

	eng := drillsim.New(drillsim.WithSeed(42))

	table, err := eng.Generate(ctx, domain.DefaultRequest())
	if err != nil {
		log.Fatal(err)
	}

	path, err := eng.Export(ctx, table, domain.DefaultExportTarget())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("wrote", path) // data/test_data_1.csv

Exports never overwrite: the exporter picks the lowest free index for the
target prefix, writes to a temporary file and renames it into place. Use
WithLocker with a memory or redis Locker when several writers share a directory.

# Reproducibility

A request's Seed, or WithSeed, fixes the random source. Unseeded runs pick a
seed from the clock; Table.Seed reports it so the run can be repeated.
*/
package drillsim
