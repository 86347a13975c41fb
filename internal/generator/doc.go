// Package generator builds a synthetic vSphere inventory from a configuration document.
//
// Generation is a single, sequential, top-down pass: regions receive VM quotas by
// weight, each region gets its vCenter and datacenters, datacenters are filled with
// clusters sized from the region's distribution profile, clusters with hosts, hosts
// with VMs, and finally storage, networking and tags are attached. Every draw comes
// from one seeded source, so a seed and a document fully determine the output.
package generator
