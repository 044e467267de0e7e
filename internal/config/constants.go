package config

import corev1 "k8s.io/api/core/v1"

// ImageTagLatest is the sentinel meaning "most recent published image".
// Unset or blank image tags normalize to it.
const ImageTagLatest = "latest"

// Session isolation taint. Pools with session isolation enabled carry
// exactly one taint with this key and effect; its value is free.
const (
	SessionTaintKey   = "workload-type"
	SessionTaintValue = "session"
)

// SessionTaintEffect is the effect of the auto-inserted session taint.
const SessionTaintEffect = corev1.TaintEffectNoSchedule

// vpcIDLength is the total length of an AWS VPC identifier,
// "vpc-" plus a 17-character suffix.
const vpcIDLength = 21

// Identifier prefixes for EFS resources.
const (
	efsFileSystemPrefix  = "fs-"
	efsAccessPointPrefix = "fsap-"
)

// SupportedVPCEndpointServices is the closed set of interface/gateway
// endpoint services a cluster may exclude from provisioning.
var SupportedVPCEndpointServices = map[string]bool{
	"autoscaling":          true,
	"ec2":                  true,
	"ecr.api":              true,
	"ecr.dkr":              true,
	"eks":                  true,
	"eks-auth":             true,
	"elasticloadbalancing": true,
	"kms":                  true,
	"logs":                 true,
	"s3":                   true,
	"secretsmanager":       true,
	"sts":                  true,
}
