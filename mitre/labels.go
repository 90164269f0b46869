// Package mitre provides the static ATT&CK tactic and technique labels the
// detectors attach to their detections. Labels only: no STIX ingestion.
package mitre

// Tactic names as they appear on detections
const (
	TacticReconnaissance   = "Reconnaissance"
	TacticInitialAccess    = "Initial Access"
	TacticExecution        = "Execution"
	TacticPersistence      = "Persistence"
	TacticDefenseEvasion   = "Defense Evasion"
	TacticCredentialAccess = "Credential Access"
	TacticDiscovery        = "Discovery"
	TacticLateralMovement  = "Lateral Movement"
	TacticExfiltration     = "Exfiltration"
	TacticImpact           = "Impact"
)

// Technique IDs referenced by the detector roster
const (
	TechniqueActiveScanning        = "T1595"
	TechniqueAccountDiscovery      = "T1087"
	TechniqueNetworkServiceScan    = "T1046"
	TechniqueValidAccounts         = "T1078"
	TechniqueBruteForce            = "T1110"
	TechniquePasswordSpraying      = "T1110.003"
	TechniqueOSCredentialDumping   = "T1003"
	TechniqueLSASSMemory           = "T1003.001"
	TechniqueRemoteServices        = "T1021"
	TechniqueSMBAdminShares        = "T1021.002"
	TechniqueExfilOverC2           = "T1041"
	TechniqueExfilOverAltProtocol  = "T1048"
	TechniqueScheduledTask         = "T1053"
	TechniqueBootAutostart         = "T1547"
	TechniqueCreateModifyService   = "T1543"
	TechniqueIndicatorRemoval      = "T1070"
	TechniqueClearWindowsEventLogs = "T1070.001"
	TechniqueImpairDefenses        = "T1562"
	TechniqueDataEncryptedImpact   = "T1486"
	TechniqueDataDestruction       = "T1485"
	TechniqueInhibitSystemRecovery = "T1490"
	TechniqueApplicationLayerProto = "T1071"
)

// techniqueNames maps technique IDs to their ATT&CK display names
var techniqueNames = map[string]string{
	TechniqueActiveScanning:        "Active Scanning",
	TechniqueAccountDiscovery:      "Account Discovery",
	TechniqueNetworkServiceScan:    "Network Service Discovery",
	TechniqueValidAccounts:         "Valid Accounts",
	TechniqueBruteForce:            "Brute Force",
	TechniquePasswordSpraying:      "Password Spraying",
	TechniqueOSCredentialDumping:   "OS Credential Dumping",
	TechniqueLSASSMemory:           "LSASS Memory",
	TechniqueRemoteServices:        "Remote Services",
	TechniqueSMBAdminShares:        "SMB/Windows Admin Shares",
	TechniqueExfilOverC2:           "Exfiltration Over C2 Channel",
	TechniqueExfilOverAltProtocol:  "Exfiltration Over Alternative Protocol",
	TechniqueScheduledTask:         "Scheduled Task/Job",
	TechniqueBootAutostart:         "Boot or Logon Autostart Execution",
	TechniqueCreateModifyService:   "Create or Modify System Process",
	TechniqueIndicatorRemoval:      "Indicator Removal",
	TechniqueClearWindowsEventLogs: "Clear Windows Event Logs",
	TechniqueImpairDefenses:        "Impair Defenses",
	TechniqueDataEncryptedImpact:   "Data Encrypted for Impact",
	TechniqueDataDestruction:       "Data Destruction",
	TechniqueInhibitSystemRecovery: "Inhibit System Recovery",
	TechniqueApplicationLayerProto: "Application Layer Protocol",
}

// TechniqueName returns the display name for a technique ID, or the ID
// itself when the catalog doesn't know it
func TechniqueName(id string) string {
	if name, ok := techniqueNames[id]; ok {
		return name
	}
	return id
}

// Known reports whether the technique ID exists in the catalog
func Known(id string) bool {
	_, ok := techniqueNames[id]
	return ok
}
