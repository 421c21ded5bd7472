/*
Copyright (c) 2017 SAP SE or an SAP affiliate company. All rights reserved.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package snapshot

import (
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Validate checks the snapshot for problems that cannot be seen on a single
// record: a missing name, duplicate device keys and disks without controller.
func Validate(s *Snapshot) field.ErrorList {
	allErrs := field.ErrorList{}

	if s.Name == "" {
		allErrs = append(allErrs, field.Required(field.NewPath("name"), "name is required"))
	}

	devicesPath := field.NewPath("devices")
	keys := make(map[int32]bool, len(s.Devices))
	for i, r := range s.Devices {
		idxPath := devicesPath.Index(i)
		allErrs = append(allErrs, validateDeviceRecord(&r, idxPath)...)
		if r.Key == 0 {
			continue
		}
		if keys[r.Key] {
			allErrs = append(allErrs, field.Duplicate(idxPath.Child("key"), r.Key))
		}
		keys[r.Key] = true
	}

	return allErrs
}

func validateDeviceRecord(r *DeviceRecord, fldPath *field.Path) field.ErrorList {
	allErrs := field.ErrorList{}

	if !isAllowedType(r.Type) {
		allErrs = append(allErrs, field.NotSupported(fldPath.Child("type"), r.Type, DeviceTypeAllowedValues))
	}
	if r.Key == 0 {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("key"), r.Key, "key must not be zero"))
	}
	if r.Type == DeviceTypeDisk {
		if r.ControllerKey == 0 {
			allErrs = append(allErrs, field.Required(fldPath.Child("controller_key"), "disks must reference a controller"))
		}
		if r.UnitNumber != nil && *r.UnitNumber < 0 {
			allErrs = append(allErrs, field.Invalid(fldPath.Child("unit_number"), *r.UnitNumber, "unit number must not be negative"))
		}
		if r.CapacityGB < 0 {
			allErrs = append(allErrs, field.Invalid(fldPath.Child("capacity_gb"), r.CapacityGB, "capacity must not be negative"))
		}
	}
	if r.BusNumber < 0 {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("bus_number"), r.BusNumber, "bus number must not be negative"))
	}

	return allErrs
}

func isAllowedType(t string) bool {
	for _, v := range DeviceTypeAllowedValues {
		if v == t {
			return true
		}
	}
	return false
}
