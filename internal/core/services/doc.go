// Package services implements the driving ports: the extract
// orchestrator that fans sections out to a worker pool and the report
// service over persisted records.
//
// Services depend only on domain types and driven port interfaces;
// all I/O happens behind those interfaces.
package services
