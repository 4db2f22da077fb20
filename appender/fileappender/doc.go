// Package fileappender provides the rotating file appender.
//
// On construction the appender resolves its storage directory, ensures
// {storage}/logs exists, runs one numbered rotation pass over files named
// prefix[N].ext and opens a fresh prefix.ext for append. Every event is
// written as one line and flushed immediately. A Deferred appender does
// the directory, rotation and open steps in Open instead, which lets a
// configuration be fully validated before any file is touched.
//
// Rotation ranks files by their numeric suffix, so prefix10.ext is older
// than prefix9.ext. The unsuffixed file is the newest.
//
// All file system access goes through an afero.Fs, so rotation can be
// exercised against afero.NewMemMapFs() in tests and dry runs.
package fileappender
