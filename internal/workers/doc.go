// Package workers sizes bounded worker pools from available CPU capacity.
package workers
