package main

// VersionNumber is the CLI release version.
const VersionNumber = "0.1.0"
