// Package deps locates the external executables emocorpus shells out to.
package deps
