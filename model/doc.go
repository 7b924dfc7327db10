// Package model defines the incident workflow domain: lifecycle states and
// their adjacency table, workflow instances, agent outputs, audit events and
// governance decisions. The types are plain data; behaviour that mutates them
// lives in service/workflow and service/governance.
package model
