package core

// PWMBase is the base address of the PWM block in the NM1200/NM1100 address map.
const PWMBase = 0x40040000

// Offset is a register offset from the PWM block base address
type Offset uint32

// PWM register offsets
const (
	RegCLKPSC   Offset = 0x00 // Clock prescaler, one byte per channel pair
	RegCLKDIV   Offset = 0x04 // Clock divider selector, one nibble per channel
	RegCTL      Offset = 0x08 // Control
	RegPERIOD0  Offset = 0x0C // PERIOD[0..5], 4 bytes apart
	RegCMPDAT0  Offset = 0x24 // CMPDAT[0..5], 4 bytes apart
	RegCNT0     Offset = 0x3C // CNT[0..5], read only
	RegINTEN    Offset = 0x54 // Interrupt enable
	RegINTSTS   Offset = 0x58 // Interrupt flags, write 1 to clear
	RegPOEN     Offset = 0x5C // Output enable
	RegBRKCTL   Offset = 0x60 // Fault brake control
	RegDTCTL    Offset = 0x64 // Dead-zone durations, one byte per channel pair
	RegADCTCTL0 Offset = 0x68 // ADC trigger enables, channels 0-3
	RegADCTCTL1 Offset = 0x6C // ADC trigger enables, channels 4-5
	RegADCTSTS0 Offset = 0x70 // ADC trigger flags, channels 0-3, write 1 to clear
	RegADCTSTS1 Offset = 0x74 // ADC trigger flags, channels 4-5, write 1 to clear
	RegCNTCLR   Offset = 0x78 // Counter clear, write only, self clearing

	regBlockSize = 0x7C
)

// CLKPSC / CLKDIV / DTCTL fields
const (
	PWM_CLKPSC_CLKPSC01_Msk = 0xFF
	PWM_CLKDIV_CLKDIV0_Msk  = 0x7
	PWM_DTCTL_DTI01_Msk     = 0xFF
)

// CTL fields. Per-channel bits repeat every 4 bits.
const (
	PWM_CTL_CNTEN0_Pos   = 0
	PWM_CTL_PINV0_Pos    = 2
	PWM_CTL_CNTMODE0_Pos = 3
	PWM_CTL_DTEN01_Pos   = 24
	PWM_CTL_MODE_Pos     = 28

	PWM_CTL_CNTEN0_Msk   = 1 << PWM_CTL_CNTEN0_Pos
	PWM_CTL_PINV0_Msk    = 1 << PWM_CTL_PINV0_Pos
	PWM_CTL_CNTMODE0_Msk = 1 << PWM_CTL_CNTMODE0_Pos
	PWM_CTL_DTEN01_Msk   = 1 << PWM_CTL_DTEN01_Pos
	PWM_CTL_MODE_Msk     = 3 << PWM_CTL_MODE_Pos
	PWM_CTL_GROUPEN_Msk  = 1 << 30
	PWM_CTL_CNTTYPE_Msk  = 1 << 31
)

// INTEN fields
const (
	PWM_INTEN_PIEN0_Pos    = 0
	PWM_INTEN_DIEN0_Pos    = 8
	PWM_INTEN_BRKIEN_Msk   = 1 << 16
	PWM_INTEN_PINTTYPE_Msk = 1 << 17
	PWM_INTEN_DINTTYPE_Msk = 1 << 18
)

// INTSTS fields
const (
	PWM_INTSTS_PIF0_Pos   = 0
	PWM_INTSTS_DIF0_Pos   = 8
	PWM_INTSTS_BRKIF0_Msk = 1 << 16
	PWM_INTSTS_BRKIF1_Msk = 1 << 17
)

// BRKCTL fields. BRKSTS0/1 are write 1 to clear, everything else is read/write.
const (
	PWM_BRKCTL_BRK0EN_Msk  = 1 << 0
	PWM_BRKCTL_BRK1EN_Msk  = 1 << 1
	PWM_BRKCTL_BRK0SEL_Msk = 1 << 2 // 0: EINT0, 1: ACMP1
	PWM_BRKCTL_BRK1SEL_Msk = 1 << 3 // 0: EINT1, 1: ACMP0
	PWM_BRKCTL_BRKSTS0_Msk = 1 << 4
	PWM_BRKCTL_BRKSTS1_Msk = 1 << 5
	PWM_BRKCTL_BRKLV0_Pos  = 24

	pwmBrkctlW1CMsk = PWM_BRKCTL_BRKSTS0_Msk | PWM_BRKCTL_BRKSTS1_Msk
)

// ADCTCTLn / ADCTSTSn fields for channel 0. Other channels are at 8*n.
const (
	PWM_ADCTCTL0_ZPTRGEN0_Msk = 1 << 0
	PWM_ADCTCTL0_CDTRGEN0_Msk = 1 << 1
	PWM_ADCTCTL0_CPTRGEN0_Msk = 1 << 2
	PWM_ADCTCTL0_CUTRGEN0_Msk = 1 << 3
)

func periodReg(ch Channel) Offset  { return RegPERIOD0 + Offset(ch)*4 }
func compareReg(ch Channel) Offset { return RegCMPDAT0 + Offset(ch)*4 }
func counterReg(ch Channel) Offset { return RegCNT0 + Offset(ch)*4 }

var regNames = map[Offset]string{
	RegCLKPSC:   "CLKPSC",
	RegCLKDIV:   "CLKDIV",
	RegCTL:      "CTL",
	RegINTEN:    "INTEN",
	RegINTSTS:   "INTSTS",
	RegPOEN:     "POEN",
	RegBRKCTL:   "BRKCTL",
	RegDTCTL:    "DTCTL",
	RegADCTCTL0: "ADCTCTL0",
	RegADCTCTL1: "ADCTCTL1",
	RegADCTSTS0: "ADCTSTS0",
	RegADCTSTS1: "ADCTSTS1",
	RegCNTCLR:   "CNTCLR",
}

// RegisterName returns the data sheet name of the register at off, e.g. "PERIOD3".
func RegisterName(off Offset) string {
	if name, ok := regNames[off]; ok {
		return name
	}
	if off%4 == 0 {
		switch {
		case off >= RegPERIOD0 && off < RegCMPDAT0:
			return "PERIOD" + utoa(uint32(off-RegPERIOD0)/4)
		case off >= RegCMPDAT0 && off < RegCNT0:
			return "CMPDAT" + utoa(uint32(off-RegCMPDAT0)/4)
		case off >= RegCNT0 && off < RegINTEN:
			return "CNT" + utoa(uint32(off-RegCNT0)/4)
		}
	}
	return "0x" + hex32(uint32(off))
}

// Registers lists every register offset in address order.
func Registers() []Offset {
	regs := make([]Offset, 0, regBlockSize/4)
	for off := Offset(0); off < regBlockSize; off += 4 {
		regs = append(regs, off)
	}
	return regs
}
