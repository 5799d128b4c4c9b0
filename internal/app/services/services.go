// Package services holds the business logic behind the controllers and the CLI.
//
// Services defined in this package:
//   - StudentService: register administration (create, edit, freeze, delete)
//   - CertificateService: draft previews and numbered issuance of leave and bonafide certificates
//   - ImportService: roster import and duplicate resolution
package services
