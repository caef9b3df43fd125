package classifier

import (
	"strconv"

	"FlowTally/internal/lookup"
	"FlowTally/internal/model"
	"FlowTally/internal/registry"
)

// Classify validates one flow log record and resolves its tag. The record is
// the already-split field sequence of a single line. Validation fails fast:
// field count, schema version, log status, destination port, protocol number,
// in that order. A valid record yields a Tagged outcome when the lookup index
// has an entry for its (port, protocol) pair, otherwise Untagged.
func Classify(fields []string, reg *registry.Registry, idx *lookup.Index) model.Outcome {
	if len(fields) != model.FieldCount {
		return reject(model.RejectFieldCount)
	}
	if fields[model.FieldVersion] != model.SupportedVersion {
		return reject(model.RejectUnsupportedVersion)
	}
	// NODATA and SKIPDATA records carry no meaningful port/protocol.
	switch fields[model.FieldLogStatus] {
	case "NODATA", "SKIPDATA":
		return reject(model.RejectNoData)
	}

	port, err := strconv.Atoi(fields[model.FieldDstPort])
	if err != nil || port < 0 {
		return reject(model.RejectBadPort)
	}

	protoNum, err := strconv.Atoi(fields[model.FieldProtocol])
	if err != nil {
		return reject(model.RejectUnknownProtocol)
	}
	protoName, ok := reg.Resolve(protoNum)
	if !ok {
		return reject(model.RejectUnknownProtocol)
	}

	if tag, ok := idx.Lookup(port, protoName); ok {
		return model.Outcome{Kind: model.KindTagged, Port: port, Protocol: protoName, Tag: tag}
	}
	return model.Outcome{Kind: model.KindUntagged, Port: port, Protocol: protoName}
}

func reject(reason model.RejectReason) model.Outcome {
	return model.Outcome{Kind: model.KindRejected, Reason: reason}
}
