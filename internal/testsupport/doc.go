// Package testsupport holds fixtures shared by package tests: temp-dir backed
// configs, file writers and journal stores.
package testsupport
