// Package bayesnet builds, trains, and uses discrete Bayesian network
// classifiers for supervised classification on tabular data: naive Bayes,
// TAN, K-DB, SPODE, AODE, and the boosted AODE ensemble, all backed by a
// shared DAG substrate with parallel CPT estimation and exact inference.
package bayesnet

// Verbose controls whether LoadDataset prints the number of rows it read.
// The structure learners and ensembles print nothing, whatever its value.
// Off by default; tests and library callers should leave it alone.
var Verbose = false

// Version is the semver string reported by BaseClassifier.GetVersion.
const Version = "1.0.0"
