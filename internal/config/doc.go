// Package config binds the cassandra-count command line and configuration files to
// run and connection settings.
//
// Flags are registered on a pflag.FlagSet. A configuration file supplies defaults for
// any flag not given explicitly on the command line. Two file formats are read:
//
//   - .yaml / .yml: a YAML map of flag name to value
//   - anything else: one "key value" pair per line, whitespace separated, where the key
//     may carry a leading "-" and lines starting with "#" are comments
//
// camelCase names such as numSplits and consistencyLevel are accepted as aliases both
// on the command line and in files.
package config
