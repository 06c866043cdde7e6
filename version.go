package netiface

// The netiface version.
const Version = "1.0.0"
