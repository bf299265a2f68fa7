// Package services implements the driving ports by orchestrating the
// processing packages (scan, modtable, rank, harness) over the driven
// ports. Services contain the pipeline sequencing and policy; all I/O
// lives behind the ports.
package services
