package detect

// Signal tags attached to detections. The enrichment tiers match on
// signal substrings, so the names here feed directly into risk scoring.
const (
	SignalImpossibleTravel       = "impossible_travel"
	SignalAnomalousLoginVelocity = "anomalous_login_velocity"

	SignalAttackChain            = "attack_chain"
	SignalSuspiciousAuthSequence = "suspicious_auth_sequence"

	SignalSuspiciousSequence = "suspicious_sequence"
	SignalDiscoveryFollowup  = "discovery_followup"

	SignalIntelMaliciousIP       = "intel_malicious_ip"
	SignalIntelSuspiciousProcess = "intel_suspicious_process"

	SignalReconnaissance = "reconnaissance"
	SignalDiscoveryTool  = "discovery_tooling"
	SignalPortScan       = "port_scan"
	SignalDNSEnumeration = "dns_enumeration"

	SignalCredentialDumping   = "credential_dumping"
	SignalPasswordSpraying    = "password_spraying"
	SignalSuspiciousAuthSpike = "suspicious_auth_volume"

	SignalLateralMovement = "lateral_movement"
	SignalAdminShareUse   = "admin_share_access"

	SignalExfiltration  = "exfiltration"
	SignalLargeTransfer = "large_transfer"
	SignalExfilTooling  = "exfiltration_tooling"

	SignalPersistence   = "persistence"
	SignalScheduledTask = "scheduled_task"
	SignalAutostart     = "autostart_modification"

	SignalDefenseEvasion      = "defense_evasion"
	SignalLogTampering        = "suspicious_log_tampering"
	SignalSecurityToolDisable = "suspicious_defense_disable"

	SignalRansomware           = "ransomware"
	SignalMassFileModification = "ransomware_mass_file_activity"
	SignalDataDestruction      = "data_destruction"
)
