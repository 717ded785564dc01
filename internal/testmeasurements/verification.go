package testmeasurements

// verifyBin checks the service's bin against the locally computed
// expectation for the same thresholds.
func verifyBin(m Measurement, resp Response) bool {
	return resp.Bin == m.expectedBin
}
